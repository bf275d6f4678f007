package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrInvalidInterval = errors.New("interval must be positive")

// Evictor drops cached rosters that have sat idle.
type Evictor interface {
	EvictIdle(maxIdle time.Duration) int
}

// Scheduler runs background maintenance for the roster service.
type Scheduler struct {
	s        gocron.Scheduler
	log      zerolog.Logger
	stopOnce sync.Once
	stopErr  error
}

func NewScheduler(logger zerolog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error().
						Str("job_id", jobID.String()).
						Str("job_name", jobName).
						Interface("panic", recoverData).
						Msg("Scheduler job panicked")
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{s: s, log: logger}, nil
}

// AddStoreEviction sweeps evictor every interval, dropping rosters idle for
// longer than maxIdle.
func (s *Scheduler) AddStoreEviction(evictor Evictor, interval, maxIdle time.Duration) error {
	if interval <= 0 || maxIdle <= 0 {
		return ErrInvalidInterval
	}

	jobLogger := s.log.With().
		Str("job_name", "store-eviction").
		Dur("interval", interval).
		Logger()

	task := func() {
		if evicted := evictor.EvictIdle(maxIdle); evicted > 0 {
			jobLogger.Info().Int("evicted", evicted).Msg("Evicted idle rosters")
		}
	}

	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("store-eviction"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		jobLogger.Error().Err(err).Msg("Failed to register scheduler job")
		return fmt.Errorf("failed to create store eviction job: %w", err)
	}
	jobLogger.Info().Msg("Scheduler job registered")
	return nil
}

func (s *Scheduler) Start() {
	s.log.Info().Msg("Scheduler starting")
	s.s.Start()
}

// Stop shuts down the scheduler; later calls return the first result.
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() {
		s.log.Info().Msg("Scheduler stopping")
		s.stopErr = s.s.Shutdown()
	})
	return s.stopErr
}
