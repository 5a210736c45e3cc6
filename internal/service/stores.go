package service

import (
	"context"

	"eventboard/internal/domain/event"
	"eventboard/internal/domain/registration"
)

// Storage gateway consumed by the services. The postgres package
// implements it for production; repo/memory backs the tests.

type EventStore interface {
	Insert(ctx context.Context, e event.Event) error
	Update(ctx context.Context, e event.Event) error
	GetByID(ctx context.Context, id string) (event.Event, error)
	// Query returns one page of summaries plus the total match count,
	// which must not depend on the requested page.
	Query(ctx context.Context, f event.Filter) ([]event.Summary, int, error)
}

type RegistrationStore interface {
	Find(ctx context.Context, eventID, userID string) (registration.Registration, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	ListParticipants(ctx context.Context, eventID string) ([]registration.Participant, error)
	GetParticipant(ctx context.Context, eventID, userID string) (registration.Participant, error)
	ListEventsForUser(ctx context.Context, userID string) ([]event.Summary, error)
	// Insert is the authoritative backstop for both invariants: it must
	// fail with registration.ErrAlreadyRegistered or ErrEventFull even
	// when the coordinator's pre-checks raced another request.
	Insert(ctx context.Context, reg registration.Registration) error
	Delete(ctx context.Context, eventID, userID string) error
}

// FileChecker is the file-artifact collaborator consulted when an event
// carries an image reference.
type FileChecker interface {
	Exists(id string) (bool, error)
}
