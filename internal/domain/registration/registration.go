package registration

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Registration struct {
	ID               string    `json:"id"`
	EventID          string    `json:"eventId"`
	UserID           string    `json:"userId"`
	RegistrationDate time.Time `json:"registrationDate"`
	CreatedAt        time.Time `json:"createdAt"`
}

// if the (event, user) pair already holds a registration.
var ErrAlreadyRegistered = errors.New("user already registered for event")

// error if event is at capacity
var ErrEventFull = errors.New("event is full")

var ErrNotFound = errors.New("registration not found")

// Participant is the registrations-joined-with-identity projection.
type Participant struct {
	UserID           string    `json:"userId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Birthday         time.Time `json:"birthday"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// New builds a registration for the pair with a fresh id, dated today.
func New(eventID, userID string) Registration {
	now := time.Now().UTC()
	return Registration{
		ID:               uuid.NewString(),
		EventID:          eventID,
		UserID:           userID,
		RegistrationDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:        now,
	}
}
