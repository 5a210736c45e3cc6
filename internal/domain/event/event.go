package event

import (
	"errors"
	"time"
)

type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	Location        string    `json:"location"`
	Category        *string   `json:"category,omitempty"`
	MaxParticipants int       `json:"maxParticipants"`
	ImageFileID     *string   `json:"imageFileId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("event not found")

// Summary is the list-view projection. The participant count is computed
// from the registrations set at query time, never stored on the event row.
type Summary struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	StartAt             time.Time `json:"startAt"`
	EndAt               time.Time `json:"endAt"`
	Location            string    `json:"location"`
	Category            *string   `json:"category,omitempty"`
	MaxParticipants     int       `json:"maxParticipants"`
	CurrentParticipants int       `json:"currentParticipantsCount"`
	ImageFileID         *string   `json:"imageFileId,omitempty"`
}

// Details is the single-event projection.
type Details struct {
	Event
	CurrentParticipants int `json:"currentParticipantsCount"`
}

// with pointers if optional, it will be nil
type Filter struct {
	Title      *string
	Location   *string
	Category   *string
	OnDate     *time.Time
	PageNumber int
	PageSize   int
}

// Offset precondition: PageNumber >= 1 and PageSize in [1,50], both
// enforced at the HTTP boundary.
func (f Filter) Offset() int {
	return (f.PageNumber - 1) * f.PageSize
}

type Page struct {
	Items           []Summary `json:"items"`
	TotalItemsCount int       `json:"totalItemsCount"`
	PageSize        int       `json:"pageSize"`
	PagesCount      int       `json:"pagesCount"`
}

type CreateEventRequest struct {
	Title           string    `json:"title" binding:"required,max=250"`
	Description     string    `json:"description" binding:"required,max=10000"`
	StartAt         time.Time `json:"startAt" binding:"required"`
	EndAt           time.Time `json:"endAt" binding:"required"`
	Location        string    `json:"location" binding:"required,max=250"`
	Category        *string   `json:"category" binding:"omitempty,max=100"`
	MaxParticipants int       `json:"maxParticipants" binding:"required,min=1,max=9999"`
	ImageFileID     *string   `json:"imageFileId" binding:"omitempty,max=41"`
}

// a full update payload, applied to every mutable field at once.
type UpdateEventRequest struct {
	Title           string    `json:"title" binding:"required,max=250"`
	Description     string    `json:"description" binding:"required,max=10000"`
	StartAt         time.Time `json:"startAt" binding:"required"`
	EndAt           time.Time `json:"endAt" binding:"required"`
	Location        string    `json:"location" binding:"required,max=250"`
	Category        *string   `json:"category" binding:"omitempty,max=100"`
	MaxParticipants int       `json:"maxParticipants" binding:"required,min=1,max=9999"`
	ImageFileID     *string   `json:"imageFileId" binding:"omitempty,max=41"`
}

// OccursOn reports whether the calendar day of d falls inside the event's
// window. Comparison is by date, not timestamp.
func (e Event) OccursOn(d time.Time) bool {
	day := DateOnly(d)
	return !DateOnly(e.StartAt).After(day) && !DateOnly(e.EndAt).Before(day)
}

// DateOnly truncates a timestamp to its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Summarize builds the list projection for an event with its live count.
func Summarize(e Event, currentParticipants int) Summary {
	return Summary{
		ID:                  e.ID,
		Title:               e.Title,
		StartAt:             e.StartAt,
		EndAt:               e.EndAt,
		Location:            e.Location,
		Category:            e.Category,
		MaxParticipants:     e.MaxParticipants,
		CurrentParticipants: currentParticipants,
		ImageFileID:         e.ImageFileID,
	}
}
