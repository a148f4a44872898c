package updater

import (
	"time"

	"github.com/goccy/go-json"

	"m3u-mirror-failover/playlist"
	"m3u-mirror-failover/prober"
)

// Outcome is the terminal state of one run.
type Outcome string

const (
	// OutcomeUpdated: the playlist was rewritten to a new server base.
	OutcomeUpdated Outcome = "updated"
	// OutcomeNoOp: a working server was found but no write was needed.
	OutcomeNoOp Outcome = "no-op"
	// OutcomeNoLink: the playlist yielded no recognizable stream link.
	OutcomeNoLink Outcome = "no-link"
	// OutcomeNoServer: the candidate list was empty or fully dead.
	OutcomeNoServer Outcome = "no-server"
)

// Report summarizes one run of the extract→probe→rewrite pipeline.
type Report struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Policy     string            `json:"policy"`
	OldBase    string            `json:"old_base,omitempty"`
	NewBase    string            `json:"new_base,omitempty"`
	PathCount  int               `json:"path_count"`
	Outcome    Outcome           `json:"outcome"`
	Updated    bool              `json:"updated"`
	Error      string            `json:"error,omitempty"`
	Changes    []playlist.Change `json:"changes,omitempty"`
	Probes     []prober.Result   `json:"probes,omitempty"`
	Checksum   string            `json:"checksum,omitempty"`
}

// JSON encodes the report for the status endpoint and for log consumers.
func (r *Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}
