// Package scheduler triggers the sync and the pending-geocode sweep on cron
// schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"disability-jobs/internal/pipeline"
	"disability-jobs/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

type SyncJob interface {
	Run(ctx context.Context) pipeline.Result
}

type SweepJob interface {
	Run(ctx context.Context) (service.BatchResult, error)
}

type Config struct {
	SyncSpec  string
	SweepSpec string
	TimeZone  string
	// InitialDelay is how long after Start the first sync runs. Negative
	// disables the startup run.
	InitialDelay time.Duration
}

type Scheduler struct {
	cron   *cron.Cron
	sync   SyncJob
	sweep  SweepJob
	cfg    Config
	logger arbor.ILogger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func New(syncJob SyncJob, sweep SweepJob, cfg Config, logger arbor.ILogger) (*Scheduler, error) {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	loc := time.Local
	if cfg.TimeZone != "" {
		l, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
		}
		loc = l
	}

	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sync:   syncJob,
		sweep:  sweep,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Start registers both jobs and starts the cron loop. Jobs run with a context
// that is cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	if s.sync != nil && s.cfg.SyncSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.SyncSpec, func() { s.runSync(ctx) }); err != nil {
			s.cancel()
			return fmt.Errorf("schedule sync %q: %w", s.cfg.SyncSpec, err)
		}
	}
	if s.sweep != nil && s.cfg.SweepSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.SweepSpec, func() { s.runSweep(ctx) }); err != nil {
			s.cancel()
			return fmt.Errorf("schedule geocode sweep %q: %w", s.cfg.SweepSpec, err)
		}
	}

	s.cron.Start()
	s.logger.Info().Str("sync", s.cfg.SyncSpec).Str("sweep", s.cfg.SweepSpec).Str("tz", s.cfg.TimeZone).Msg("scheduler started")

	if s.sync != nil && s.cfg.InitialDelay >= 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			t := time.NewTimer(s.cfg.InitialDelay)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			s.logger.Info().Msg("running initial sync")
			s.runSync(ctx)
		}()
	}
	return nil
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runSync(ctx context.Context) {
	res := s.sync.Run(ctx)
	if !res.Success {
		s.logger.Warn().Str("error", res.Error).Msg("scheduled sync did not complete")
		return
	}
	s.logger.Info().Int("created", res.Stats.Created).Int("updated", res.Stats.Updated).Int("failed", res.Stats.Failed).Msg("scheduled sync done")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	res, err := s.sweep.Run(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("scheduled geocode sweep failed")
		return
	}
	s.logger.Info().Int("processed", res.Processed).Int("updated", res.Updated).Msg("scheduled geocode sweep done")
}

// cronLogger routes cron's own messages through arbor.
type cronLogger struct {
	logger arbor.ILogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Str("kv", fmt.Sprint(keysAndValues...)).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Str("kv", fmt.Sprint(keysAndValues...)).Msg("cron: " + msg)
}
