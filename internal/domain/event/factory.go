package event

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateEventRequest) Event {
	now := time.Now().UTC()

	return Event{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		Location:        req.Location,
		Category:        req.Category,
		MaxParticipants: req.MaxParticipants,
		ImageFileID:     req.ImageFileID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ApplyUpdate overwrites every mutable field from the request. Note that
// MaxParticipants may drop below the current registration count; existing
// registrations are kept as-is and the event reads as over capacity.
func (e Event) ApplyUpdate(req UpdateEventRequest) Event {
	e.Title = req.Title
	e.Description = req.Description
	e.StartAt = req.StartAt
	e.EndAt = req.EndAt
	e.Location = req.Location
	e.Category = req.Category
	e.MaxParticipants = req.MaxParticipants
	e.ImageFileID = req.ImageFileID
	e.UpdatedAt = time.Now().UTC()
	return e
}
