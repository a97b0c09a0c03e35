package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSize(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")
	require.NoError(t, os.WriteFile(dbPath, make([]byte, 1000), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", make([]byte, 24), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), make([]byte, 5000), 0o644))

	size, err := DataSize(dbPath)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), size)

	size, err = DataSize(filepath.Join(dir, "missing", "app.db"))
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))
}
