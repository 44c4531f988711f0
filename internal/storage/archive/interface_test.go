package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Local(t *testing.T) {
	s, err := New(Config{Type: TypeLocal, Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalFS{}, s)
}

func TestNew_DefaultsToLocal(t *testing.T) {
	s, err := New(Config{Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalFS{}, s)
}

func TestNew_S3(t *testing.T) {
	s, err := New(Config{Type: TypeS3, S3: S3Config{
		Bucket:   "snapshots",
		Endpoint: "http://localhost:9000",
		Region:   "us-east-1",
	}})
	require.NoError(t, err)
	assert.IsType(t, &S3Storage{}, s)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(Config{Type: "ftp"})
	assert.Error(t, err)
}
