package fileref

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbs(t *testing.T) {
	assert.Equal(t, Ref("/work/a.txt"), Ref("a.txt").Abs("/work"))
	assert.Equal(t, Ref("/work/sub/a.txt"), Ref("./sub/a.txt").Abs("/work"))
	assert.Equal(t, Ref("/a.txt"), Ref("../a.txt").Abs("/work"))

	// Already-absolute references are untouched byte-for-byte.
	assert.Equal(t, Ref("/abs/a.txt"), Ref("/abs/a.txt").Abs("/work"))
	assert.Equal(t, Ref(""), Ref("").Abs("/work"))
}

func TestExistsAndModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	pinned := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, pinned, pinned))

	present := Ref(path)
	assert.True(t, present.Exists())
	mtime, ok := present.ModTime()
	require.True(t, ok)
	assert.True(t, mtime.Equal(pinned))

	missing := Ref(filepath.Join(dir, "missing.txt"))
	assert.False(t, missing.Exists())
	mtime, ok = missing.ModTime()
	assert.False(t, ok)
	assert.True(t, mtime.IsZero())
}

func TestDirAndBase(t *testing.T) {
	ref := Ref("/work/sub/a.txt")
	assert.Equal(t, "/work/sub", ref.Dir())
	assert.Equal(t, "a.txt", ref.Base())
}
