package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventboard/internal/apperror"
	"eventboard/internal/domain/registration"
	"eventboard/internal/http/handlers"

	"github.com/gin-gonic/gin"
)

// Fake implementation of the handlers.RegistrationCoordinator interface

type fakeCoordinator struct {
	registerFn     func(ctx context.Context, eventID, userID string) error
	unregisterFn   func(ctx context.Context, eventID, userID string) error
	participantsFn func(ctx context.Context, eventID string) ([]registration.Participant, error)
	participantFn  func(ctx context.Context, eventID, userID string) (registration.Participant, error)
}

func (f *fakeCoordinator) Register(ctx context.Context, eventID, userID string) error {
	if f.registerFn != nil {
		return f.registerFn(ctx, eventID, userID)
	}
	return nil
}

func (f *fakeCoordinator) Unregister(ctx context.Context, eventID, userID string) error {
	if f.unregisterFn != nil {
		return f.unregisterFn(ctx, eventID, userID)
	}
	return nil
}

func (f *fakeCoordinator) Participants(ctx context.Context, eventID string) ([]registration.Participant, error) {
	if f.participantsFn != nil {
		return f.participantsFn(ctx, eventID)
	}
	return nil, nil
}

func (f *fakeCoordinator) Participant(ctx context.Context, eventID, userID string) (registration.Participant, error) {
	if f.participantFn != nil {
		return f.participantFn(ctx, eventID, userID)
	}
	return registration.Participant{}, nil
}

// identityRouter mounts the handler behind a stub that injects the
// authenticated user the way the auth middleware would.
func identityRouter(method, path, userID string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, func(c *gin.Context) {
		if userID != "" {
			c.Set("auth.userID", userID)
		}
	}, h)

	return r
}

func TestRegisterHandler(t *testing.T) {
	eventID := newUUID()
	userID := newUUID()

	tests := []struct {
		name           string
		eventID        string
		userID         string
		setup          func(*fakeCoordinator)
		wantStatusCode int
	}{
		{
			name:    "success",
			eventID: eventID,
			userID:  userID,
			setup: func(f *fakeCoordinator) {
				f.registerFn = func(ctx context.Context, gotEvent, gotUser string) error {
					if gotEvent != eventID || gotUser != userID {
						t.Fatalf("got (%s, %s)", gotEvent, gotUser)
					}
					return nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid_event_id",
			eventID:        "nope",
			userID:         userID,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_identity",
			eventID:        eventID,
			userID:         "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:    "already_registered",
			eventID: eventID,
			userID:  userID,
			setup: func(f *fakeCoordinator) {
				f.registerFn = func(ctx context.Context, gotEvent, gotUser string) error {
					return apperror.RuleViolation("already_registered", "already registered")
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:    "event_full",
			eventID: eventID,
			userID:  userID,
			setup: func(f *fakeCoordinator) {
				f.registerFn = func(ctx context.Context, gotEvent, gotUser string) error {
					return apperror.RuleViolation("event_full", "event is at capacity")
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:    "event_not_found",
			eventID: eventID,
			userID:  userID,
			setup: func(f *fakeCoordinator) {
				f.registerFn = func(ctx context.Context, gotEvent, gotUser string) error {
					return apperror.NotFound("event_not_found", "event doesn't exist")
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			coordinator := &fakeCoordinator{}
			if tt.setup != nil {
				tt.setup(coordinator)
			}

			h := handlers.NewRegistrationsHandler(coordinator, nil)
			r := identityRouter(http.MethodPost, "/events/:id/registrations", tt.userID, h.Register)

			req := httptest.NewRequest(http.MethodPost, "/events/"+tt.eventID+"/registrations", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestUnregisterHandler(t *testing.T) {
	eventID := newUUID()
	userID := newUUID()

	tests := []struct {
		name           string
		setup          func(*fakeCoordinator)
		wantStatusCode int
	}{
		{
			name:           "success",
			wantStatusCode: http.StatusNoContent,
		},
		{
			name: "not_registered",
			setup: func(f *fakeCoordinator) {
				f.unregisterFn = func(ctx context.Context, gotEvent, gotUser string) error {
					return apperror.RuleViolation("not_registered", "no registration held")
				}
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			coordinator := &fakeCoordinator{}
			if tt.setup != nil {
				tt.setup(coordinator)
			}

			h := handlers.NewRegistrationsHandler(coordinator, nil)
			r := identityRouter(http.MethodDelete, "/events/:id/registrations", userID, h.Unregister)

			req := httptest.NewRequest(http.MethodDelete, "/events/"+eventID+"/registrations", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestListParticipantsHandler(t *testing.T) {
	eventID := newUUID()

	coordinator := &fakeCoordinator{
		participantsFn: func(ctx context.Context, gotEvent string) ([]registration.Participant, error) {
			return []registration.Participant{
				{UserID: newUUID(), FirstName: "Ada", LastName: "Lovelace", RegistrationDate: time.Now().UTC()},
			}, nil
		},
	}

	h := handlers.NewRegistrationsHandler(coordinator, nil)
	r := identityRouter(http.MethodGet, "/events/:id/registrations", newUUID(), h.ListParticipants)

	req := httptest.NewRequest(http.MethodGet, "/events/"+eventID+"/registrations", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
}

func TestGetParticipantHandler(t *testing.T) {
	eventID := newUUID()
	userID := newUUID()

	tests := []struct {
		name           string
		setup          func(*fakeCoordinator)
		wantStatusCode int
	}{
		{
			name: "success",
			setup: func(f *fakeCoordinator) {
				f.participantFn = func(ctx context.Context, gotEvent, gotUser string) (registration.Participant, error) {
					return registration.Participant{UserID: gotUser, FirstName: "Ada"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			setup: func(f *fakeCoordinator) {
				f.participantFn = func(ctx context.Context, gotEvent, gotUser string) (registration.Participant, error) {
					return registration.Participant{}, apperror.NotFound("participant_not_found", "no such participant")
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			coordinator := &fakeCoordinator{}
			if tt.setup != nil {
				tt.setup(coordinator)
			}

			h := handlers.NewRegistrationsHandler(coordinator, nil)
			r := identityRouter(http.MethodGet, "/events/:id/registrations/:userId", newUUID(), h.GetParticipant)

			req := httptest.NewRequest(http.MethodGet, "/events/"+eventID+"/registrations/"+userID, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
