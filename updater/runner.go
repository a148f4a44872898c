package updater

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"m3u-mirror-failover/config"
	"m3u-mirror-failover/history"
	"m3u-mirror-failover/logger"
	"m3u-mirror-failover/playlist"
	"m3u-mirror-failover/prober"
	"m3u-mirror-failover/serverlist"
)

// Runner executes one pass of the pipeline:
// extract the authoritative base and channel paths from the playlist, probe
// the candidate servers, and rewrite the playlist if a different working
// server was found. Every abort path leaves the playlist untouched.
type Runner struct {
	cfg      *config.Config
	failures *prober.FailureCache
	store    *history.Store
	client   *http.Client
}

func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg:      cfg,
		failures: prober.NewFailureCache(cfg.ProbeCacheTTL),
	}
}

// WithHistory wires an in-memory probe history store, used in watch mode.
func (r *Runner) WithHistory(store *history.Store) *Runner {
	r.store = store
	return r
}

// WithClient overrides the probe HTTP client.
func (r *Runner) WithClient(client *http.Client) *Runner {
	r.client = client
	return r
}

func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Policy:    r.cfg.ProbePolicy,
	}
	defer func() {
		report.FinishedAt = time.Now()
	}()

	lines, err := playlist.Load(r.cfg.PlaylistFile)
	if err != nil {
		logger.Default.Errorf("Error reading playlist '%s': %v", r.cfg.PlaylistFile, err)
		report.Outcome = OutcomeNoLink
		report.Error = err.Error()
		return report
	}

	extraction, err := playlist.Extract(lines, playlist.DefaultPattern(r.cfg.TargetDomain))
	if err != nil {
		logger.Default.Errorf("Could not find a '%s' link in the playlist", r.cfg.TargetDomain)
		report.Outcome = OutcomeNoLink
		report.Error = err.Error()
		return report
	}

	logger.Default.Logf("Found initial server base: %s", extraction.Base)
	logger.Default.Logf("Identified %d channel path(s)", len(extraction.Paths))
	report.OldBase = extraction.Base
	report.PathCount = len(extraction.Paths)

	candidates, err := serverlist.Load(r.cfg.ServerListFile)
	if err != nil {
		logger.Default.Errorf("Error loading server list '%s': %v", r.cfg.ServerListFile, err)
		report.Outcome = OutcomeNoServer
		report.Error = err.Error()
		return report
	}

	opts := prober.OptionsFromConfig(r.cfg)
	opts.Client = r.client
	working, probes, err := prober.New(opts, r.failures).Probe(ctx, candidates, extraction.Paths)
	report.Probes = probes
	if r.store != nil {
		if recErr := r.store.RecordProbes(report.RunID, probes); recErr != nil {
			logger.Default.Errorf("Error recording probe history: %v", recErr)
		}
	}
	if err != nil {
		report.Outcome = OutcomeNoServer
		report.Error = err.Error()
		return report
	}

	if len(working) == 0 {
		logger.Default.Log("Playlist not updated: no working servers were found in the list")
		report.Outcome = OutcomeNoServer
		return report
	}

	newBase := working[0]
	report.NewBase = newBase

	if strings.EqualFold(newBase, extraction.Base) {
		logger.Default.Logf("Playlist already uses the best working base (%s). No update necessary", extraction.Base)
		report.Outcome = OutcomeNoOp
		return report
	}

	logger.Default.Logf("Replacing all instances of '%s' with '%s'", extraction.Base, newBase)

	newLines, changes, err := playlist.Rewrite(lines, extraction.Base, newBase)
	if err != nil {
		logger.Default.Errorf("Update aborted: %v", err)
		report.Outcome = OutcomeNoOp
		report.Error = err.Error()
		return report
	}

	if len(changes) == 0 {
		logger.Default.Logf("No changes needed or no target links found for replacement in '%s'", r.cfg.PlaylistFile)
		report.Outcome = OutcomeNoOp
		return report
	}

	if r.cfg.BackupOnUpdate {
		if err := playlist.Backup(r.cfg.PlaylistFile, lines); err != nil {
			logger.Default.Errorf("Error writing playlist backup: %v", err)
			report.Outcome = OutcomeNoOp
			report.Error = err.Error()
			return report
		}
	}

	if err := playlist.Save(r.cfg.PlaylistFile, newLines); err != nil {
		logger.Default.Errorf("Error writing playlist: %v", err)
		report.Outcome = OutcomeNoOp
		report.Error = err.Error()
		return report
	}

	logger.Default.Logf("Successfully updated '%s' to use %s", r.cfg.PlaylistFile, newBase)
	report.Outcome = OutcomeUpdated
	report.Updated = true
	report.Changes = changes
	report.Checksum = playlist.Checksum(newLines)
	return report
}
