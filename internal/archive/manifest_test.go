package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(year, date string) Record {
	return Record{
		State:     Field{Value: "Meghalaya", Label: "MEGHALAYA"},
		District:  Field{Value: "East Khasi Hills", Label: "EAST KHASI HILLS"},
		Block:     Field{Value: "Block1", Label: "BLOCK 1"},
		Panchayat: Field{Value: "GP1", Label: "GP 1"},
		Year:      Field{Value: year, Label: year},
		Date:      Field{Value: date, Label: date},
		Option:    Field{Value: "1", Label: "All"},
		File:      "out.html.gz",
		SavedAt:   time.Now(),
	}
}

func TestManifestAppendAndRead(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.jsonl")

	m, err := OpenManifest(path)
	require.NoError(t, err)
	require.NoError(t, m.Append(testRecord("2020-21", "15-01-2021")))
	require.NoError(t, m.Append(testRecord("2021-22", "02-03-2022")))
	require.NoError(t, m.Close())

	keys, err := ReadManifestKeys(path)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Contains(t, keys,
		NewKey("Meghalaya", "East Khasi Hills", "Block1", "GP1", "2020-21", "15-01-2021"))
}

func TestManifestReopenAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.jsonl")

	m, err := OpenManifest(path)
	require.NoError(t, err)
	require.NoError(t, m.Append(testRecord("2020-21", "15-01-2021")))
	require.NoError(t, m.Close())

	m, err = OpenManifest(path)
	require.NoError(t, err)
	require.NoError(t, m.Append(testRecord("2021-22", "02-03-2022")))
	require.NoError(t, m.Close())

	keys, err := ReadManifestKeys(path)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestReadManifestKeysMissingFile(t *testing.T) {
	t.Parallel()

	keys, err := ReadManifestKeys(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestReadManifestKeysSkipsCorruptLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.jsonl")

	m, err := OpenManifest(path)
	require.NoError(t, err)
	require.NoError(t, m.Append(testRecord("2020-21", "15-01-2021")))
	require.NoError(t, m.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{truncated\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	keys, err := ReadManifestKeys(path)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
