package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemSource_Read(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))

	src := NewFilesystem()
	content, err := src.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(content))
}

func TestLoad_SkipsUnreadable(t *testing.T) {
	tmpDir := t.TempDir()
	good := filepath.Join(tmpDir, "good.py")
	require.NoError(t, os.WriteFile(good, []byte("pass\n"), 0644))

	units, errs := Load(NewFilesystem(), []string{good, filepath.Join(tmpDir, "missing.py")})
	require.Len(t, units, 1)
	assert.Equal(t, good, units[0].ID)
	assert.Len(t, errs, 1)
}
