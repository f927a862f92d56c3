package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/booking-analytics/internal/config"
)

var uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{kind}_{timestamp}_{uuid}", ".json", map[string]string{"kind": "report"})
	assert.Regexp(t, regexp.MustCompile(`^report_\d{8}_\d{6}_`+uuidPattern+`\.json$`), name)

	assert.Equal(t, "export.csv", GenerateOutputFileName("{kind}.csv", ".csv", map[string]string{"kind": "export"}))
	assert.Equal(t, "plain", GenerateOutputFileName("plain", "", nil))

	first := GenerateOutputFileName("{uuid}", ".xml", nil)
	second := GenerateOutputFileName("{uuid}", ".xml", nil)
	assert.NotEqual(t, first, second)
}

func TestOutputPath(t *testing.T) {
	fm := NewFileManager(config.OutputSettings{Dir: "out", FileNameFormat: "{kind}_{date}_{original}"})
	fm.now = func() time.Time { return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC) }

	path := fm.OutputPath("report", ".xlsx", map[string]string{"original": "buchungen"})
	assert.Equal(t, filepath.Join("out", "report_20240305_buchungen.xlsx"), path)
}

func TestEnsureDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	fm := NewFileManager(config.OutputSettings{Dir: dir})

	require.NoError(t, fm.EnsureDirectories())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDiscoverInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.XLSX", "notes.md", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

	single := filepath.Join(dir, "notes.md")
	files, err := DiscoverInputFiles([]string{single, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		single,
		filepath.Join(dir, "a.XLSX"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.txt"),
	}, files)

	_, err = DiscoverInputFiles([]string{filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(nil, dir)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = WriteErrorLog([]ErrorLogEntry{
		{Timestamp: time.Now(), FileName: "a.csv", ErrorType: "no_valid_rows", ErrorMessage: "Keine gültigen Daten gefunden"},
		{Timestamp: time.Now(), FileName: "b.csv", ErrorType: "skipped_row", ErrorMessage: "no booking code and no arrival date", RowNumber: 4},
	}, dir)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Total Errors: 2")
	assert.Contains(t, text, "Keine gültigen Daten gefunden")
	assert.Contains(t, text, "Row Number:     4")
	assert.Equal(t, 1, strings.Count(text, "Row Number"))
}

func TestWriteSummaryLog(t *testing.T) {
	start := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	summary := ProcessingSummary{
		StartTime:       start,
		EndTime:         start.Add(2 * time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalRows:       3,
		AcceptedRows:    2,
		ProcessedFiles:  []ProcessedFileInfo{{InputFile: "a.csv", TotalRows: 3, Accepted: 2}},
		FailedFilesList: []FailedFileInfo{{InputFile: "b.csv", ErrorMessage: "Keine Daten in der CSV-Datei gefunden", ErrorType: "empty_file"}},
	}

	path, err := WriteSummaryLog(summary, t.TempDir())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Duration:       2s")
	assert.Contains(t, text, "Imported:     2 of 3 rows")
	assert.Contains(t, text, "Keine Daten in der CSV-Datei gefunden (empty_file)")
}
