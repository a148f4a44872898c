package handlers

import (
	"net/http"
	"sort"

	"github.com/goccy/go-json"

	"m3u-mirror-failover/logger"
	"m3u-mirror-failover/updater"
)

// StatusHandler exposes run reports and probe history in watch mode.
type StatusHandler struct {
	updater *updater.Updater
}

func NewStatusHandler(u *updater.Updater) *StatusHandler {
	return &StatusHandler{updater: u}
}

// Status serves the latest run report.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	report := h.updater.LatestReport()
	if report == nil {
		http.Error(w, `{"error":"no run has completed yet"}`, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, report)
}

// Runs serves every retained run report, newest first.
func (h *StatusHandler) Runs(w http.ResponseWriter, r *http.Request) {
	reports := h.updater.Reports()
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].StartedAt.After(reports[j].StartedAt)
	})
	writeJSON(w, reports)
}

// History serves stored probe records, optionally filtered by ?server=.
func (h *StatusHandler) History(w http.ResponseWriter, r *http.Request) {
	server := r.URL.Query().Get("server")

	var records any
	var err error
	if server != "" {
		records, err = h.updater.History.ProbesForServer(server)
	} else {
		records, err = h.updater.History.AllProbes()
	}
	if err != nil {
		logger.Default.Errorf("Error querying probe history: %v", err)
		http.Error(w, `{"error":"history query failed"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, records)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Default.Errorf("Error encoding response: %v", err)
	}
}
