// Package scheduler implements the recurring-trigger substrate on gocron.
// Triggers are named and tagged by chat identity; firing dispatches the
// trigger's payload to a single handler rather than closing over clients.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/bobmcallan/stonkbot/internal/common"
	"github.com/bobmcallan/stonkbot/internal/models"
)

// Handler receives the payload of a fired trigger.
type Handler func(payload models.TriggerPayload)

// Scheduler implements interfaces.Scheduler on a gocron scheduler.
type Scheduler struct {
	cron    gocron.Scheduler
	handler Handler
	logger  *common.Logger

	mu   sync.Mutex
	jobs map[string][]models.TriggerPayload
}

// New creates a scheduler firing in the given location. The handler is
// invoked for every trigger firing with that trigger's payload.
func New(logger *common.Logger, loc *time.Location, handler Handler) (*Scheduler, error) {
	cron, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		cron:    cron,
		handler: handler,
		logger:  logger,
		jobs:    make(map[string][]models.TriggerPayload),
	}, nil
}

// RegisterDaily adds a recurring daily trigger under the given name.
func (s *Scheduler) RegisterDaily(name string, hour, minute int, payload models.TriggerPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.cron.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), uint(minute), 0))),
		gocron.NewTask(func() { s.fire(payload) }),
		gocron.WithName(name),
		gocron.WithTags(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register trigger %s/%s: %w", name, payload.Kind, err)
	}

	s.jobs[name] = append(s.jobs[name], payload)
	s.logger.Info().
		Str("name", name).
		Str("kind", string(payload.Kind)).
		Str("at", fmt.Sprintf("%02d:%02d", hour, minute)).
		Msg("Trigger registered")
	return nil
}

// CancelByName removes every trigger registered under the name and returns
// how many were cancelled.
func (s *Scheduler) CancelByName(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.jobs[name])
	if count == 0 {
		return 0
	}
	s.cron.RemoveByTags(name)
	delete(s.jobs, name)
	s.logger.Info().Str("name", name).Int("count", count).Msg("Triggers cancelled")
	return count
}

// ListByName returns the payloads of the triggers registered under the name.
func (s *Scheduler) ListByName(name string) []models.TriggerPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	payloads := make([]models.TriggerPayload, len(s.jobs[name]))
	copy(payloads, s.jobs[name])
	return payloads
}

// Start begins firing triggers.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Shutdown stops the scheduler and waits for running triggers.
func (s *Scheduler) Shutdown() error {
	return s.cron.Shutdown()
}

func (s *Scheduler) fire(payload models.TriggerPayload) {
	s.logger.Debug().
		Int64("chat_id", payload.ChatID).
		Str("kind", string(payload.Kind)).
		Msg("Trigger fired")
	s.handler(payload)
}
