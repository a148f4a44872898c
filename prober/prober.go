package prober

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"m3u-mirror-failover/config"
	"m3u-mirror-failover/logger"
	"m3u-mirror-failover/utils"
)

// ErrNoPaths is returned when probing is attempted without channel paths.
var ErrNoPaths = errors.New("no channel paths to probe")

// Status classifies the outcome of a single probe.
type Status string

const (
	StatusOK        Status = "ok"
	StatusBadStatus Status = "bad_status"
	StatusTimeout   Status = "timeout"
	StatusError     Status = "error"
)

// Result is the outcome of one GET against one channel path on one candidate.
type Result struct {
	Server     string    `json:"server"`
	Path       string    `json:"path"`
	Status     Status    `json:"status"`
	StatusCode int       `json:"status_code,omitempty"`
	LatencyMs  int64     `json:"latency_ms"`
	CheckedAt  time.Time `json:"checked_at"`
}

// Options selects the probing policy and its pacing. A nil Client gets the
// default redirect-following client with the custom User-Agent.
type Options struct {
	Policy         string
	MaxWorking     int
	Timeout        time.Duration
	CandidatePause time.Duration
	PathPause      time.Duration
	Client         *http.Client
}

// OptionsFromConfig derives probe options from the run configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Policy:         cfg.ProbePolicy,
		MaxWorking:     cfg.MaxWorkingServers,
		Timeout:        cfg.ProbeTimeout,
		CandidatePause: cfg.CandidatePause,
		PathPause:      cfg.PathPause,
	}
}

// Prober sequentially tests candidate server bases against channel paths.
type Prober struct {
	client           *http.Client
	opts             Options
	candidateLimiter *rate.Limiter
	pathLimiter      *rate.Limiter
	failures         *FailureCache
}

func New(opts Options, failures *FailureCache) *Prober {
	if opts.MaxWorking < 1 {
		opts.MaxWorking = 1
	}
	client := opts.Client
	if client == nil {
		client = utils.HTTPClient()
	}
	return &Prober{
		client:           client,
		opts:             opts,
		candidateLimiter: newLimiter(opts.CandidatePause),
		pathLimiter:      newLimiter(opts.PathPause),
		failures:         failures,
	}
}

// newLimiter spaces successive probes by the given pause. The first request
// goes through immediately.
func newLimiter(pause time.Duration) *rate.Limiter {
	if pause <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(pause), 1)
}

// Probe walks the candidate list in order and returns the working server
// bases (candidate order, truncated to the working-count cap) plus every
// probe result observed along the way. Under the first-success policy the
// cap is one and probing stops at the first accepted candidate.
func (p *Prober) Probe(ctx context.Context, candidates, paths []string) ([]string, []Result, error) {
	if len(paths) == 0 {
		return nil, nil, ErrNoPaths
	}

	capacity := p.opts.MaxWorking
	if p.opts.Policy == config.PolicyFirstSuccess {
		capacity = 1
	}

	logger.Default.Logf("Starting server health check (%s policy, %d candidate(s))", p.opts.Policy, len(candidates))

	var working []string
	var results []Result

	for _, server := range candidates {
		if len(working) >= capacity {
			break
		}

		if p.failures.RecentlyFailed(server) {
			logger.Default.Debugf("Skipping %s: failed within cache TTL", server)
			continue
		}

		if err := p.candidateLimiter.Wait(ctx); err != nil {
			return working, results, err
		}

		if p.probeCandidate(ctx, server, paths, &results) {
			logger.Default.Logf("SUCCESS: Server %s is live and responding", server)
			working = append(working, server)
		} else {
			p.failures.MarkFailed(server)
		}
	}

	if len(working) == 0 {
		logger.Default.Log("No working servers found after checking the entire list")
	}

	return working, results, nil
}

// probeCandidate tests one candidate. First-success probes only the first
// channel path; all-paths requires every path to answer 200 and bails on the
// first failure.
func (p *Prober) probeCandidate(ctx context.Context, server string, paths []string, results *[]Result) bool {
	testPaths := paths
	if p.opts.Policy == config.PolicyFirstSuccess {
		testPaths = paths[:1]
	}

	for i, path := range testPaths {
		if i > 0 {
			if err := p.pathLimiter.Wait(ctx); err != nil {
				return false
			}
		}

		res := p.probeOne(ctx, server, path)
		*results = append(*results, res)

		if res.Status != StatusOK {
			logger.Default.Logf("FAILED: %s%s -> %s (status %d)", server, path, res.Status, res.StatusCode)
			return false
		}

		logger.Default.Debugf("OK: %s%s (%dms)", server, path, res.LatencyMs)
	}

	return true
}

// probeOne issues a single GET, following redirects, bounded by the policy
// timeout. Any non-200 status or transport failure fails the path; there are
// no retries.
func (p *Prober) probeOne(ctx context.Context, server, path string) Result {
	res := Result{Server: server, Path: path, CheckedAt: time.Now()}

	reqCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, server+path, nil)
	if err != nil {
		res.Status = StatusError
		return res
	}
	req.Header.Set("User-Agent", utils.GetEnv("USER_AGENT"))

	start := time.Now()
	resp, err := p.client.Do(req)
	res.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			// Caller shut the run down; the server did not time out.
			res.Status = StatusError
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded):
			res.Status = StatusTimeout
		default:
			res.Status = StatusError
		}
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		res.Status = StatusBadStatus
		return res
	}

	res.Status = StatusOK
	return res
}
