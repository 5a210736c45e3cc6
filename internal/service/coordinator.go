package service

import (
	"context"
	"errors"

	"eventboard/internal/apperror"
	"eventboard/internal/domain/event"
	"eventboard/internal/domain/registration"
	"eventboard/internal/observability"
)

// Coordinator enforces the two registration invariants: at most one
// registration per (event, user) pair, and never more registrations than
// the event's cap at quiescence.
//
// The pre-checks below are fast paths only. The authoritative decision is
// made by RegistrationStore.Insert, which the postgres gateway runs as a
// count-then-insert inside one transaction with the event row locked, and
// the memory gateway runs under its store mutex. A duplicate that races
// past the pre-check dies on the unique index and comes back as
// registration.ErrAlreadyRegistered, not as a storage error.
type Coordinator struct {
	events EventStore
	regs   RegistrationStore
	prom   *observability.Prom
}

func NewCoordinator(events EventStore, regs RegistrationStore, prom *observability.Prom) *Coordinator {
	return &Coordinator{events: events, regs: regs, prom: prom}
}

func (c *Coordinator) outcome(name string) {
	if c.prom != nil {
		c.prom.RegistrationsTotal.WithLabelValues(name).Inc()
	}
}

func (c *Coordinator) Register(ctx context.Context, eventID, userID string) error {
	e, err := c.lookupEvent(ctx, eventID)
	if err != nil {
		return err
	}

	_, err = c.regs.Find(ctx, eventID, userID)

	if err == nil {
		c.outcome("duplicate")
		return apperror.RuleViolation("already_registered", "user %s is already registered for event %s", userID, eventID)
	}

	if !errors.Is(err, registration.ErrNotFound) {
		return apperror.Unexpected(err, "could not look up registration for event %s", eventID)
	}

	count, err := c.regs.CountByEvent(ctx, eventID)
	if err != nil {
		return apperror.Unexpected(err, "could not count registrations for event %s", eventID)
	}

	if count >= e.MaxParticipants {
		c.outcome("full")
		return apperror.RuleViolation("event_full", "event %s is at capacity (%d)", eventID, e.MaxParticipants)
	}

	err = c.regs.Insert(ctx, registration.New(eventID, userID))

	switch {
	case err == nil:
		c.outcome("registered")
		return nil
	case errors.Is(err, registration.ErrAlreadyRegistered):
		c.outcome("duplicate")
		return apperror.RuleViolation("already_registered", "user %s is already registered for event %s", userID, eventID)
	case errors.Is(err, registration.ErrEventFull):
		c.outcome("full")
		return apperror.RuleViolation("event_full", "event %s is at capacity (%d)", eventID, e.MaxParticipants)
	case errors.Is(err, event.ErrNotFound):
		return apperror.NotFound("event_not_found", "event %s doesn't exist", eventID)
	default:
		return apperror.Unexpected(err, "could not register user %s for event %s", userID, eventID)
	}
}

func (c *Coordinator) Unregister(ctx context.Context, eventID, userID string) error {
	if _, err := c.lookupEvent(ctx, eventID); err != nil {
		return err
	}

	_, err := c.regs.Find(ctx, eventID, userID)

	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			return apperror.RuleViolation("not_registered", "user %s is not registered for event %s", userID, eventID)
		}
		return apperror.Unexpected(err, "could not look up registration for event %s", eventID)
	}

	err = c.regs.Delete(ctx, eventID, userID)

	if err != nil {
		// another request may have drained it between find and delete
		if errors.Is(err, registration.ErrNotFound) {
			return apperror.RuleViolation("not_registered", "user %s is not registered for event %s", userID, eventID)
		}
		return apperror.Unexpected(err, "could not unregister user %s from event %s", userID, eventID)
	}

	c.outcome("unregistered")
	return nil
}

func (c *Coordinator) Participants(ctx context.Context, eventID string) ([]registration.Participant, error) {
	if _, err := c.lookupEvent(ctx, eventID); err != nil {
		return nil, err
	}

	participants, err := c.regs.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, apperror.Unexpected(err, "could not list participants for event %s", eventID)
	}
	return participants, nil
}

func (c *Coordinator) Participant(ctx context.Context, eventID, userID string) (registration.Participant, error) {
	if _, err := c.lookupEvent(ctx, eventID); err != nil {
		return registration.Participant{}, err
	}

	p, err := c.regs.GetParticipant(ctx, eventID, userID)

	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			return registration.Participant{}, apperror.NotFound("participant_not_found", "user %s has no registration for event %s", userID, eventID)
		}
		return registration.Participant{}, apperror.Unexpected(err, "could not load participant %s for event %s", userID, eventID)
	}

	return p, nil
}

func (c *Coordinator) lookupEvent(ctx context.Context, eventID string) (event.Event, error) {
	e, err := c.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return event.Event{}, apperror.NotFound("event_not_found", "event %s doesn't exist", eventID)
		}
		return event.Event{}, apperror.Unexpected(err, "could not load event %s", eventID)
	}
	return e, nil
}
