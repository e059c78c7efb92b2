package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvbrowse/internal/model"
)

var (
	headers = model.HeaderList{"sku", "name", "price"}
	rows    = model.Dataset{
		{"sku": "A1", "name": "Anker Cable", "price": "9.99"},
		{"sku": "B2", "name": "Hub, 4 port", "price": "39.00"},
	}
)

func TestWriteCSVHeaderOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, headers, rows))
	want := "sku,name,price\nA1,Anker Cable,9.99\nB2,\"Hub, 4 port\",39.00\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, headers, rows))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"sku":"A1","name":"Anker Cable","price":"9.99"}`, lines[0])

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, map[string]string(rows[1]), got)
}

func TestNDJSONDuplicateHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	h := model.HeaderList{"a", "a"}
	require.NoError(t, WriteNDJSON(&buf, h, model.Dataset{{"a": "2"}}))
	assert.Equal(t, "{\"a\":\"2\"}\n", buf.String())
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out.csv")
	jsonPath := filepath.Join(dir, "out.json")

	require.NoError(t, Write("csv", csvPath, headers, rows))
	require.NoError(t, Write("json", jsonPath, headers, rows))

	b, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "sku,name,price\n"))

	b, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(b), "\n"))
}

func TestWriteErrors(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, Write("csv", filepath.Join(dir, "x.csv"), headers, nil), ErrNoRows)
	assert.ErrorContains(t, Write("xml", filepath.Join(dir, "x.xml"), headers, rows), "unknown format")
	assert.Error(t, Write("csv", filepath.Join(dir, "missing", "x.csv"), headers, rows))
}
