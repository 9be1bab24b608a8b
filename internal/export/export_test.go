package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gaze-network/presale/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	w, err := New(context.Background(), config.ExportConfig{Dir: dir})
	require.NoError(t, err)
	require.IsType(t, &FileWriter{}, w)

	location, err := w.Write(context.Background(), "purchases.parquet", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "purchases.parquet"), location)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestFileWriterRequiresDir(t *testing.T) {
	_, err := NewFileWriter("")
	assert.Error(t, err)
}
