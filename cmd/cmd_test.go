package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/muhammadolammi/resumatch/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adaJSON = `{"name":"Ada Lovelace","email":"ada@example.com","phone_number":"555-123-4567","skills":"Python, SQL","experience":["Analyst"]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

func TestReadDocument(t *testing.T) {
	path := writeFile(t, "ada.JSON", adaJSON)

	doc, err := readDocument(path, "", 0)
	require.NoError(t, err)
	assert.Equal(t, resume.FormatJSON, doc.Format)

	_, err = readDocument(path, "txt", 0)
	assert.ErrorIs(t, err, resume.ErrUnsupportedFormat)

	_, err = readDocument(path, "", 10)
	assert.ErrorIs(t, err, resume.ErrTooLarge)
}

func TestJobDescription(t *testing.T) {
	jd, err := jobDescription("", "inline")
	require.NoError(t, err)
	assert.Equal(t, "inline", jd)

	jd, err = jobDescription(writeFile(t, "jd.txt", "from file"), "")
	require.NoError(t, err)
	assert.Equal(t, "from file", jd)

	_, err = jobDescription(filepath.Join(t.TempDir(), "missing.txt"), "")
	assert.Error(t, err)
}

func TestExtractCommand(t *testing.T) {
	out, err := execute(t, "extract", "--ner", "blank", writeFile(t, "ada.json", adaJSON))
	require.NoError(t, err)

	var rec resume.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, resume.Record{
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Phone:      "555-123-4567",
		Skills:     []string{"Python", "SQL"},
		Experience: []string{"Analyst"},
	}, rec)
}

func TestScoreCommand(t *testing.T) {
	out, err := execute(t, "score", "--ner", "blank", "--job-text", "SQL analyst", writeFile(t, "ada.json", adaJSON))
	require.NoError(t, err)

	var got scoreOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Ada Lovelace", got.Record.Name)
	assert.Equal(t, map[string]float64{"SQL": 0.53}, got.SkillsMatch)
	assert.Greater(t, got.Score, 0)
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "ranked")
	_, err := execute(t, "report", "--ner", "blank", "--job-text", "python", "--out", out,
		writeFile(t, "ada.json", adaJSON), writeFile(t, "notes.txt", "hello"))
	require.NoError(t, err)

	_, err = os.Stat(out + ".xlsx")
	assert.NoError(t, err)
}
