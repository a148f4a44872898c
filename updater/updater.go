package updater

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/robfig/cron/v3"

	"m3u-mirror-failover/config"
	"m3u-mirror-failover/history"
	"m3u-mirror-failover/logger"
)

// Updater schedules pipeline runs in watch mode and retains their reports
// for the status endpoint.
type Updater struct {
	sync.Mutex
	ctx     context.Context
	runner  *Runner
	Cron    *cron.Cron
	History *history.Store

	reports *xsync.MapOf[string, *Report]
	latest  *Report
}

// Initialize wires the cron schedule from SYNC_CRON and optionally kicks an
// initial run when SYNC_ON_BOOT is set.
func Initialize(ctx context.Context, cfg *config.Config) (*Updater, error) {
	store, err := history.NewStore()
	if err != nil {
		logger.Default.Errorf("Error initializing probe history: %v", err)
		return nil, err
	}

	instance := &Updater{
		ctx:     ctx,
		runner:  NewRunner(cfg).WithHistory(store),
		History: store,
		reports: xsync.NewMapOf[string, *Report](),
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.SyncCron, func() {
		go instance.RunOnce(ctx)
	})
	if err != nil {
		logger.Default.Errorf("Error initializing background processes: %v", err)
		return nil, err
	}
	c.Start()

	if cfg.SyncOnBoot {
		logger.Default.Log("SYNC_ON_BOOT enabled. Starting initial mirror check.")
		go instance.RunOnce(ctx)
	}

	instance.Cron = c

	return instance, nil
}

// RunOnce executes one pipeline pass. Only one run executes at a time; a
// scheduled run that fires while another is active waits its turn.
func (instance *Updater) RunOnce(ctx context.Context) *Report {
	instance.Lock()
	defer instance.Unlock()

	select {
	case <-ctx.Done():
		return nil
	default:
	}

	logger.Default.Log("Background process: Checking mirror servers...")
	report := instance.runner.Run(ctx)
	instance.reports.Store(report.RunID, report)
	instance.latest = report
	logger.Default.Logf("Background process: Run %s finished (%s)", report.RunID, report.Outcome)

	return report
}

// LatestReport returns the most recent run report, or nil before any run.
func (instance *Updater) LatestReport() *Report {
	instance.Lock()
	defer instance.Unlock()
	return instance.latest
}

// Reports returns every retained run report.
func (instance *Updater) Reports() []*Report {
	all := make([]*Report, 0)
	instance.reports.Range(func(_ string, report *Report) bool {
		all = append(all, report)
		return true
	})
	return all
}
