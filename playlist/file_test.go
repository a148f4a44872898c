package playlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.m3u")
	require.NoError(t, os.WriteFile(path, []byte(samplePlaylist), 0644))

	lines, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, Save(path, lines))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, samplePlaylist, string(data), "load+save must reproduce the file byte-for-byte")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.m3u"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestChecksumChangesWithContent(t *testing.T) {
	a := Checksum([]string{"#EXTM3U", "http://fl1.example.com/ABC/index.m3u8"})
	b := Checksum([]string{"#EXTM3U", "http://fl2.example.com/ABC/index.m3u8"})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Checksum([]string{"#EXTM3U", "http://fl1.example.com/ABC/index.m3u8"}))
}

func TestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.m3u")
	lines := []string{"#EXTM3U", "http://fl1.example.com/ABC/index.m3u8"}

	require.NoError(t, Backup(path, lines))

	compressed, err := os.ReadFile(path + ".bak.zst")
	require.NoError(t, err)

	decoder, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer decoder.Close()

	restored, err := decoder.DecodeAll(compressed, nil)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\nhttp://fl1.example.com/ABC/index.m3u8", string(restored))
}
