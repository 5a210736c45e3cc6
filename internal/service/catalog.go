package service

import (
	"context"
	"errors"

	"eventboard/internal/apperror"
	"eventboard/internal/domain/event"
)

// Catalog owns the event lifecycle and the filtered list query. It is a
// pure read/write orchestrator over the storage gateway; all capacity
// bookkeeping lives in the Coordinator.
type Catalog struct {
	events EventStore
	regs   RegistrationStore
	files  FileChecker
}

func NewCatalog(events EventStore, regs RegistrationStore, files FileChecker) *Catalog {
	return &Catalog{events: events, regs: regs, files: files}
}

func (c *Catalog) Create(ctx context.Context, req event.CreateEventRequest) (event.Details, error) {
	if !req.StartAt.Before(req.EndAt) {
		return event.Details{}, apperror.InvalidArgument("invalid_window", "startAt must be before endAt")
	}

	if err := c.checkImage(req.ImageFileID); err != nil {
		return event.Details{}, err
	}

	e := event.NewFromCreateRequest(req)

	if err := c.events.Insert(ctx, e); err != nil {
		return event.Details{}, apperror.Unexpected(err, "could not persist event %s", e.ID)
	}

	return event.Details{Event: e, CurrentParticipants: 0}, nil
}

func (c *Catalog) Edit(ctx context.Context, id string, req event.UpdateEventRequest) (event.Details, error) {
	if !req.StartAt.Before(req.EndAt) {
		return event.Details{}, apperror.InvalidArgument("invalid_window", "startAt must be before endAt")
	}

	current, err := c.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return event.Details{}, apperror.NotFound("event_not_found", "event %s doesn't exist", id)
		}
		return event.Details{}, apperror.Unexpected(err, "could not load event %s", id)
	}

	// A changed image reference must point at an uploaded artifact before
	// the edit commits.
	if !sameRef(current.ImageFileID, req.ImageFileID) {
		if err := c.checkImage(req.ImageFileID); err != nil {
			return event.Details{}, err
		}
	}

	updated := current.ApplyUpdate(req)

	if err := c.events.Update(ctx, updated); err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return event.Details{}, apperror.NotFound("event_not_found", "event %s doesn't exist", id)
		}
		return event.Details{}, apperror.Unexpected(err, "could not update event %s", id)
	}

	count, err := c.regs.CountByEvent(ctx, id)
	if err != nil {
		return event.Details{}, apperror.Unexpected(err, "could not count registrations for event %s", id)
	}

	// count may now exceed updated.MaxParticipants; lowering the cap
	// under existing registrations is allowed and not auto-corrected.
	return event.Details{Event: updated, CurrentParticipants: count}, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (event.Details, error) {
	e, err := c.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return event.Details{}, apperror.NotFound("event_not_found", "event %s doesn't exist", id)
		}
		return event.Details{}, apperror.Unexpected(err, "could not load event %s", id)
	}

	count, err := c.regs.CountByEvent(ctx, id)
	if err != nil {
		return event.Details{}, apperror.Unexpected(err, "could not count registrations for event %s", id)
	}

	return event.Details{Event: e, CurrentParticipants: count}, nil
}

// List runs the conjunctive filter query and assembles page metadata.
// Precondition (held by the HTTP boundary): PageNumber >= 1 and
// PageSize in [1,50].
func (c *Catalog) List(ctx context.Context, f event.Filter) (event.Page, error) {
	items, total, err := c.events.Query(ctx, f)
	if err != nil {
		return event.Page{}, apperror.Unexpected(err, "could not list events")
	}

	pages := 0
	if total > 0 {
		pages = (total + f.PageSize - 1) / f.PageSize
	}

	return event.Page{
		Items:           items,
		TotalItemsCount: total,
		PageSize:        f.PageSize,
		PagesCount:      pages,
	}, nil
}

// EventsForUser lists the events the user holds a registration for.
func (c *Catalog) EventsForUser(ctx context.Context, userID string) ([]event.Summary, error) {
	events, err := c.regs.ListEventsForUser(ctx, userID)
	if err != nil {
		return nil, apperror.Unexpected(err, "could not list events for user %s", userID)
	}
	return events, nil
}

func (c *Catalog) checkImage(fileID *string) error {
	if fileID == nil || *fileID == "" {
		return nil
	}

	ok, err := c.files.Exists(*fileID)
	if err != nil {
		return apperror.Unexpected(err, "could not check file %s", *fileID)
	}
	if !ok {
		return apperror.NotFound("file_not_found", "file %s doesn't exist", *fileID)
	}
	return nil
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
