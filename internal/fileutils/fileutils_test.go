package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-csv/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "statement.pdf")
	require.NoError(t, os.WriteFile(testFile, []byte("%PDF-"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.pdf")))
	// Directories are not files
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	newDir := filepath.Join(tmpDir, "new", "nested", "dir")
	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))

	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&0007, "others get no access")

	assert.NoError(t, fileutils.EnsureDirectoryExists(tmpDir))
}

func TestReadFile(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "statement.txt")
	content := []byte("25/03/2024 OFFICE SUPPLIES LTD -156.78")
	require.NoError(t, os.WriteFile(testFile, content, 0600))

	data, err := fileutils.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	_, err = fileutils.ReadFile(filepath.Join(tmpDir, "nonexistent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")

	_, err = fileutils.ReadFile(tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestWriteFile(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "output.csv")
	content := []byte("Date,Description,Amount,Type\n")
	require.NoError(t, fileutils.WriteFile(testFile, content, 0600))

	data, err := os.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	nestedFile := filepath.Join(tmpDir, "a", "b", "c", "output.csv")
	require.NoError(t, fileutils.WriteOutput(nestedFile, content))
	assert.True(t, fileutils.FileExists(nestedFile))

	info, err := os.Stat(nestedFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteFile_RejectsWorldReadable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "output.csv")
	err := fileutils.WriteFile(target, []byte("x"), 0644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too permissive")
	assert.False(t, fileutils.FileExists(target))
}

func TestListFilesWithExtension(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "nested")
	require.NoError(t, os.MkdirAll(nestedDir, 0750))

	for _, f := range []string{
		filepath.Join(tmpDir, "b.pdf"),
		filepath.Join(tmpDir, "a.PDF"),
		filepath.Join(tmpDir, "notes.txt"),
		filepath.Join(tmpDir, "out.csv"),
		filepath.Join(nestedDir, "c.pdf"),
	} {
		require.NoError(t, os.WriteFile(f, []byte("test"), 0600))
	}

	files, err := fileutils.ListFilesWithExtension(tmpDir, false, ".pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "a.PDF"), filepath.Join(tmpDir, "b.pdf")}, files)

	files, err = fileutils.ListFilesWithExtension(tmpDir, true, ".pdf", ".txt")
	require.NoError(t, err)
	assert.Len(t, files, 4)

	files, err = fileutils.ListFilesWithExtension(tmpDir, false, ".json")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = fileutils.ListFilesWithExtension(filepath.Join(tmpDir, "nonexistent"), false, ".pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory does not exist")
}

func TestReplaceExtension(t *testing.T) {
	assert.Equal(t, "/tmp/march.csv", fileutils.ReplaceExtension("/tmp/march.pdf", ".csv"))
	assert.Equal(t, "march.ofx", fileutils.ReplaceExtension("march", ".ofx"))
}
