package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eventboard/internal/apperror"
	"eventboard/internal/domain/event"
	"eventboard/internal/repo/memory"
	"eventboard/internal/service"

	"github.com/google/uuid"
)

func seedEvent(t *testing.T, store *memory.Store, maxParticipants int) event.Event {
	t.Helper()

	now := time.Now().UTC()

	e := event.Event{
		ID:              uuid.NewString(),
		Title:           "Go Meetup",
		Description:     "monthly meetup",
		StartAt:         now.Add(24 * time.Hour),
		EndAt:           now.Add(26 * time.Hour),
		Location:        "Toronto",
		MaxParticipants: maxParticipants,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := store.Events().Insert(context.Background(), e); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	return e
}

func newCoordinator(store *memory.Store) *service.Coordinator {
	return service.NewCoordinator(store.Events(), store.Registrations(), nil)
}

func TestRegisterOnce(t *testing.T) {
	store := memory.NewStore()
	e := seedEvent(t, store, 5)
	c := newCoordinator(store)

	userID := uuid.NewString()

	if err := c.Register(context.Background(), e.ID, userID); err != nil {
		t.Fatalf("register: %v", err)
	}

	count, err := store.Registrations().CountByEvent(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d registrations, want 1", count)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	store := memory.NewStore()
	e := seedEvent(t, store, 5)
	c := newCoordinator(store)

	userID := uuid.NewString()

	if err := c.Register(context.Background(), e.ID, userID); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := c.Register(context.Background(), e.ID, userID)
	if apperror.KindOf(err) != apperror.KindRuleViolation {
		t.Fatalf("got kind %v, want rule violation", apperror.KindOf(err))
	}
	if apperror.CodeOf(err) != "already_registered" {
		t.Fatalf("got code %q, want already_registered", apperror.CodeOf(err))
	}
}

func TestRegisterFullEvent(t *testing.T) {
	store := memory.NewStore()
	e := seedEvent(t, store, 1)
	c := newCoordinator(store)

	if err := c.Register(context.Background(), e.ID, uuid.NewString()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := c.Register(context.Background(), e.ID, uuid.NewString())
	if apperror.CodeOf(err) != "event_full" {
		t.Fatalf("got code %q, want event_full", apperror.CodeOf(err))
	}
}

func TestRegisterUnknownEvent(t *testing.T) {
	store := memory.NewStore()
	c := newCoordinator(store)

	err := c.Register(context.Background(), uuid.NewString(), uuid.NewString())
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("got kind %v, want not found", apperror.KindOf(err))
	}
}

func TestUnregisterFreesSlot(t *testing.T) {
	store := memory.NewStore()
	e := seedEvent(t, store, 1)
	c := newCoordinator(store)

	userA := uuid.NewString()
	userB := uuid.NewString()

	if err := c.Register(context.Background(), e.ID, userA); err != nil {
		t.Fatalf("register A: %v", err)
	}

	// B is rejected while A holds the only slot
	if code := apperror.CodeOf(c.Register(context.Background(), e.ID, userB)); code != "event_full" {
		t.Fatalf("got code %q, want event_full", code)
	}

	if err := c.Unregister(context.Background(), e.ID, userA); err != nil {
		t.Fatalf("unregister A: %v", err)
	}

	if err := c.Register(context.Background(), e.ID, userB); err != nil {
		t.Fatalf("register B after slot freed: %v", err)
	}
}

func TestReRegisterAfterUnregister(t *testing.T) {
	store := memory.NewStore()
	e := seedEvent(t, store, 1)
	c := newCoordinator(store)

	userID := uuid.NewString()

	if err := c.Register(context.Background(), e.ID, userID); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := c.Unregister(context.Background(), e.ID, userID); err != nil {
		t.Fatalf("unregister: %v", err)
	}

	// the same pair can come back, it is not treated as a duplicate
	if err := c.Register(context.Background(), e.ID, userID); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	count, err := store.Registrations().CountByEvent(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d registrations, want 1", count)
	}
}

func TestUnregisterWithoutRegistration(t *testing.T) {
	store := memory.NewStore()
	e := seedEvent(t, store, 2)
	c := newCoordinator(store)

	err := c.Unregister(context.Background(), e.ID, uuid.NewString())
	if apperror.CodeOf(err) != "not_registered" {
		t.Fatalf("got code %q, want not_registered", apperror.CodeOf(err))
	}
}

// Capacity must hold when many registrations race for the last slots.
func TestRegisterConcurrentCapacity(t *testing.T) {
	const capacity = 4
	const attempts = 32

	store := memory.NewStore()
	e := seedEvent(t, store, capacity)
	c := newCoordinator(store)

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Register(context.Background(), e.ID, uuid.NewString())
		}(i)
	}

	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if apperror.CodeOf(err) != "event_full" {
			t.Fatalf("unexpected failure: %v", err)
		}
	}

	if succeeded != capacity {
		t.Fatalf("got %d successful registrations, want %d", succeeded, capacity)
	}

	count, err := store.Registrations().CountByEvent(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != capacity {
		t.Fatalf("got %d stored registrations, want %d", count, capacity)
	}
}

func TestParticipantNotFound(t *testing.T) {
	store := memory.NewStore()
	e := seedEvent(t, store, 3)
	c := newCoordinator(store)

	_, err := c.Participant(context.Background(), e.ID, uuid.NewString())

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("got %v, want apperror", err)
	}
	if appErr.Kind != apperror.KindNotFound {
		t.Fatalf("got kind %v, want not found", appErr.Kind)
	}
}
