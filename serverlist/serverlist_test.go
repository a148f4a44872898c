package serverlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "servers.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadNormalizes(t *testing.T) {
	path := writeList(t, "http://fl2.example.com/\nhttp://fl3.example.com\n")

	servers, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://fl2.example.com", "http://fl3.example.com"}, servers)
}

func TestLoadSkipsBlankLinesAndTrimsWhitespace(t *testing.T) {
	path := writeList(t, "\n  http://fl1.example.com  \n\n\t\nhttp://fl2.example.com//\n \n")

	servers, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://fl1.example.com", "http://fl2.example.com"}, servers)
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeList(t, "http://fl9.example.com\nhttp://fl1.example.com\nhttp://fl5.example.com\n")

	servers, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://fl9.example.com", "http://fl1.example.com", "http://fl5.example.com"}, servers)
}

func TestLoadEmptyList(t *testing.T) {
	path := writeList(t, "\n \n\t\n")

	_, err := Load(path)
	require.ErrorIs(t, err, ErrNoServers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
