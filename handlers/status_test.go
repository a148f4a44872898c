package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m3u-mirror-failover/config"
	"m3u-mirror-failover/history"
	"m3u-mirror-failover/updater"
)

const testPlaylist = `#EXTM3U
#EXTINF:-1 tvg-id="abc.us" tvg-name="ABC East" group-title="News",ABC East
http://fl1.example.com/ABC_EAST/index.m3u8
`

// setupWatchInstance wires a watch-mode updater against a live test mirror.
func setupWatchInstance(t *testing.T) (*updater.Updater, string) {
	t.Helper()

	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(mirror.Close)

	dir := t.TempDir()
	playlistPath := filepath.Join(dir, "Backup.m3u")
	require.NoError(t, os.WriteFile(playlistPath, []byte(testPlaylist), 0644))
	serverListPath := filepath.Join(dir, "servers.txt")
	require.NoError(t, os.WriteFile(serverListPath, []byte(mirror.URL+"\n"), 0644))

	cfg := &config.Config{
		PlaylistFile:      playlistPath,
		ServerListFile:    serverListPath,
		TargetDomain:      "example.com",
		ProbePolicy:       config.PolicyFirstSuccess,
		MaxWorkingServers: 1,
		ProbeTimeout:      2 * time.Second,
		SyncCron:          "0 * * * *",
		SyncOnBoot:        false,
	}

	instance, err := updater.Initialize(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { instance.Cron.Stop() })

	return instance, mirror.URL
}

func TestStatusBeforeAnyRun(t *testing.T) {
	instance, _ := setupWatchInstance(t)
	handler := NewStatusHandler(instance)

	rec := httptest.NewRecorder()
	handler.Status(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusServesLatestReport(t *testing.T) {
	instance, mirrorURL := setupWatchInstance(t)
	report := instance.RunOnce(context.Background())
	require.NotNil(t, report)
	require.Equal(t, updater.OutcomeUpdated, report.Outcome)

	handler := NewStatusHandler(instance)
	rec := httptest.NewRecorder()
	handler.Status(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var decoded updater.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, updater.OutcomeUpdated, decoded.Outcome)
	assert.Equal(t, mirrorURL, decoded.NewBase)
}

func TestRunsListsReportsNewestFirst(t *testing.T) {
	instance, _ := setupWatchInstance(t)
	first := instance.RunOnce(context.Background())
	second := instance.RunOnce(context.Background())
	require.NotNil(t, first)
	require.NotNil(t, second)

	handler := NewStatusHandler(instance)
	rec := httptest.NewRecorder()
	handler.Runs(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded []updater.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, second.RunID, decoded[0].RunID)
	assert.Equal(t, first.RunID, decoded[1].RunID)
}

func TestHistoryFiltersByServer(t *testing.T) {
	instance, mirrorURL := setupWatchInstance(t)
	require.NotNil(t, instance.RunOnce(context.Background()))

	handler := NewStatusHandler(instance)

	rec := httptest.NewRecorder()
	handler.History(rec, httptest.NewRequest(http.MethodGet, "/history?server="+mirrorURL, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []history.ProbeRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, mirrorURL, records[0].Server)

	rec = httptest.NewRecorder()
	handler.History(rec, httptest.NewRequest(http.MethodGet, "/history?server=http://fl9.example.com", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())
}
