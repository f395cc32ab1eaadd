// Package signup applies roster operations and reports them to metrics and event sinks.
package signup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/metrics"
	"activity-signup/internal/common/observability"
	"activity-signup/internal/events"
	"activity-signup/internal/roster"
)

type Service struct {
	config    *Config
	store     *roster.Store
	publisher events.Publisher
	obs       *observability.Observability
	logger    logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	obs := deps.Observability
	if obs == nil {
		obs = observability.Nop()
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	s := &Service{
		config:    config,
		store:     deps.Store,
		publisher: publisher,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "signup"}),
	}
	for name, a := range s.store.List() {
		metrics.RosterSize.WithLabelValues(name).Set(float64(len(a.Participants)))
	}
	return s
}

// List returns a snapshot of every activity.
func (s *Service) List(_ context.Context) roster.Catalog {
	return s.store.List()
}

// Get returns a snapshot of one activity.
func (s *Service) Get(_ context.Context, name string) (roster.Activity, error) {
	return s.store.Get(name)
}

// Register signs email up for the named activity.
func (s *Service) Register(ctx context.Context, name, email string) (*Result, error) {
	start := time.Now()
	err := s.store.Register(name, email)
	s.record(ctx, OperationRegister, err, start)
	if err != nil {
		return nil, err
	}

	s.logger.Info("participant signed up", map[string]interface{}{
		"activity": name,
		"email":    email,
	})

	event := events.NewRosterEvent(events.TypeSignedUp, name, email)
	s.publish(ctx, event)
	s.updateGauge(name)

	return &Result{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
		Event:   event,
	}, nil
}

// Unregister removes email from the named activity.
func (s *Service) Unregister(ctx context.Context, name, email string) (*Result, error) {
	start := time.Now()
	err := s.store.Unregister(name, email)
	s.record(ctx, OperationUnregister, err, start)
	if err != nil {
		return nil, err
	}

	s.logger.Info("participant unregistered", map[string]interface{}{
		"activity": name,
		"email":    email,
	})

	event := events.NewRosterEvent(events.TypeUnregistered, name, email)
	s.publish(ctx, event)
	s.updateGauge(name)

	return &Result{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
		Event:   event,
	}, nil
}

// publish never fails the caller: the roster change has already happened.
func (s *Service) publish(ctx context.Context, event events.RosterEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.EventTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(string(event.Type)).Inc()
		s.logger.Warn("roster event publish failed", map[string]interface{}{
			"eventId":   event.ID,
			"eventType": string(event.Type),
			"activity":  event.Activity,
			"error":     err,
		})
	}
}

func (s *Service) record(ctx context.Context, operation string, err error, start time.Time) {
	result := resultLabel(err)
	metrics.SignupOperations.WithLabelValues(operation, result).Inc()
	s.obs.RecordOperation(ctx, operation, result)
	s.obs.RecordDuration(ctx, operation, time.Since(start))
}

func (s *Service) updateGauge(name string) {
	if a, err := s.store.Get(name); err == nil {
		metrics.RosterSize.WithLabelValues(name).Set(float64(len(a.Participants)))
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, roster.ErrActivityNotFound):
		return "not_found"
	case errors.Is(err, roster.ErrAlreadySignedUp):
		return "already_signed_up"
	case errors.Is(err, roster.ErrNotRegistered):
		return "not_registered"
	default:
		return "error"
	}
}
