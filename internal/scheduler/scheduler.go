package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KartikAmbupe/FactFeedAI/internal/collector"
)

// Fetcher produces one cycle's draft batch. Satisfied by
// collector.Orchestrator.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]collector.Draft, collector.Report)
}

// Gateway is the storage boundary: dedup on (title, url, source) and
// commit atomically, returning the newly persisted count.
type Gateway interface {
	StoreNew(ctx context.Context, drafts []collector.Draft) (int, error)
}

// Scheduler runs fetch cycles on a cron spec. Each cycle is independent:
// the orchestrator holds no state across runs and the store commits
// transactionally, so overlapping manual triggers are harmless.
type Scheduler struct {
	cron   *cron.Cron
	orch   Fetcher
	store  Gateway
	logger *log.Logger
}

func New(spec string, orch Fetcher, store Gateway, logger *log.Logger) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		orch:   orch,
		store:  store,
		logger: logger,
	}

	_, err := c.AddFunc(spec, func() {
		if _, _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Printf("scheduled cycle failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// Delay the first cycle so startup traffic does not compete with it.
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		if _, _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Printf("startup cycle failed: %v", err)
		}
	})
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce executes one full cycle: fetch everything, hand the batch to the
// store. Source and item failures were already absorbed upstream; only a
// commit failure comes back as an error.
func (s *Scheduler) RunOnce(ctx context.Context) (int, collector.Report, error) {
	s.logger.Println("start fetch cycle...")

	drafts, report := s.orch.FetchAll(ctx)
	for _, r := range report.Results {
		if r.Skipped {
			s.logger.Printf("source %s (%s): skipped (%s)", r.Source, r.Kind, r.Reason)
			continue
		}
		s.logger.Printf("source %s (%s): fetched=%d dropped=%d", r.Source, r.Kind, r.Fetched, r.Dropped)
	}

	if len(drafts) == 0 {
		s.logger.Println("fetch cycle produced no drafts")
		return 0, report, nil
	}

	newCount, err := s.store.StoreNew(ctx, drafts)
	if err != nil {
		return 0, report, err
	}

	s.logger.Printf("fetch cycle done: fetched=%d new=%d", len(drafts), newCount)
	return newCount, report, nil
}
