// Package scheduler runs background maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const defaultJobTimeout = 30 * time.Second

// Job is one unit of scheduled work. It must return once ctx is done.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron       *cron.Cron
	log        zerolog.Logger
	jobTimeout time.Duration
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{log: log}),
			cron.WithChain(cron.Recover(cronLogger{log: log}), cron.SkipIfStillRunning(cronLogger{log: log})),
		),
		log:        log,
		jobTimeout: defaultJobTimeout,
	}
}

// Add registers job under a cron spec such as "@every 1m" or "*/5 * * * *".
func (s *Scheduler) Add(spec, name string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.log.Info().Str("job", name).Str("spec", spec).Msg("job scheduled")
	return nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop prevents new runs and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	started := time.Now()
	if err := job(ctx); err != nil {
		s.log.Error().Err(err).Str("job", name).Dur("took", time.Since(started)).Msg("job failed")
		return
	}
	s.log.Debug().Str("job", name).Dur("took", time.Since(started)).Msg("job finished")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
