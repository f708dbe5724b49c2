package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)
	file := env.WriteFileString("present.txt", "x")
	env.MkdirAll("dir")

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(env.Path("missing.txt")))
	assert.False(t, FileExists(env.Path("dir")), "directories are not files")
}

func TestWriteFileWithOverwrite(t *testing.T) {
	env := testutil.NewTestEnv(t)

	testCases := []struct {
		name          string
		file          string
		overwrite     bool
		existing      []byte
		expectWritten bool
		expectData    []byte
	}{
		{
			name:          "new file",
			file:          "new.txt",
			expectWritten: true,
			expectData:    []byte("new content"),
		},
		{
			name:          "existing file with overwrite",
			file:          "overwrite.txt",
			overwrite:     true,
			existing:      []byte("old content"),
			expectWritten: true,
			expectData:    []byte("new content"),
		},
		{
			name:          "existing file without overwrite",
			file:          "keep.txt",
			existing:      []byte("old content"),
			expectWritten: false,
			expectData:    []byte("old content"),
		},
		{
			name:          "nested directory is created",
			file:          filepath.Join("a", "b", "nested.txt"),
			expectWritten: true,
			expectData:    []byte("new content"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := env.Path(tc.file)
			if tc.existing != nil {
				env.WriteFile(tc.file, tc.existing)
			}

			written, err := WriteFileWithOverwrite(path, []byte("new content"), 0644, tc.overwrite)
			require.NoError(t, err)
			assert.Equal(t, tc.expectWritten, written)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.expectData, data)
		})
	}
}

func TestWriteJSONFile_Books(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("out", "results.json")
	price := 12.5
	books := []catalog.Book{
		{ID: 1, Title: "EL ALQUIMISTA", Author: "COELHO, PAULO", Price: &price, Stock: 3},
		{ID: 2, Title: "BRIDA"},
	}

	written, err := WriteJSONFile(books, path, false)
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []catalog.Book
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "EL ALQUIMISTA", got[0].Title)
	require.NotNil(t, got[0].Price)
	assert.InDelta(t, 12.5, *got[0].Price, 0.001)
	assert.Nil(t, got[1].Price)
}

func TestWriteJSONFile_OverwriteFlag(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("results.json")

	_, err := WriteJSONFile([]string{"old"}, path, true)
	require.NoError(t, err)

	written, err := WriteJSONFile([]string{"new"}, path, false)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Contains(t, env.ReadFileString("results.json"), "old")

	written, err = WriteJSONFile([]string{"new"}, path, true)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Contains(t, env.ReadFileString("results.json"), "new")
}

func TestWriteJSONFile_InvalidData(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("bad.json")

	written, err := WriteJSONFile(make(chan int), path, true)
	require.Error(t, err)
	assert.False(t, written)
	assert.False(t, FileExists(path))
}
