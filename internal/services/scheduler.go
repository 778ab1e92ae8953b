package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is one scheduled task.
type Job func(ctx context.Context) error

// Scheduler runs named background jobs on cron schedules. Each run gets its
// own timeout; a failing run is logged and retried at the next tick.
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID
	timeout time.Duration
}

func NewScheduler(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		jobs:    make(map[string]cron.EntryID),
		timeout: timeout,
	}
}

// AddJob registers job under name. schedule accepts standard five-field
// expressions and descriptors such as "@hourly" or "@every 30m".
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	s.jobs[name] = entryID
	log.Info().Str("job", name).Str("schedule", schedule).Msg("scheduled job")
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		log.Error().Err(err).Str("job", name).Msg("job failed")
		return
	}
	log.Info().Str("job", name).Dur("took", time.Since(start)).Msg("job completed")
}

// Jobs lists registered job names.
func (s *Scheduler) Jobs() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunNow executes a registered job synchronously.
func (s *Scheduler) RunNow(name string) error {
	id, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	s.cron.Entry(id).WrappedJob.Run()
	return nil
}

func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.jobs)).Msg("starting scheduler")
	s.cron.Start()
}

// Stop halts scheduling; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	log.Info().Msg("stopping scheduler")
	return s.cron.Stop()
}

// BackgroundJobs wires the periodic maintenance tasks into a scheduler.
type BackgroundJobs struct {
	Ingester  *BillIngester
	FeedURL   string
	FeedCron  string
	Trust     *TrustScoreService
	Petitions *PetitionService
}

func (b BackgroundJobs) Register(s *Scheduler) error {
	if b.Ingester != nil && b.FeedURL != "" {
		if err := s.AddJob("ingest-bills", b.FeedCron, func(ctx context.Context) error {
			_, err := b.Ingester.Ingest(ctx, b.FeedURL)
			return err
		}); err != nil {
			return err
		}
	}
	if b.Trust != nil {
		if err := s.AddJob("trust-sweep", "0 3 * * *", func(ctx context.Context) error {
			_, err := b.Trust.RefreshAll(ctx)
			return err
		}); err != nil {
			return err
		}
	}
	if b.Petitions != nil {
		if err := s.AddJob("close-expired-petitions", "@hourly", func(ctx context.Context) error {
			n, err := b.Petitions.CloseExpired(ctx)
			if n > 0 {
				log.Info().Int("closed", n).Msg("closed expired petitions")
			}
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}
