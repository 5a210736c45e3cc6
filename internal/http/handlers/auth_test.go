package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventboard/internal/auth"
	"eventboard/internal/domain/user"
	"eventboard/internal/http/handlers"

	"github.com/google/uuid"
)

type fakeUserReader struct {
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id string) (user.User, error)
}

func (f *fakeUserReader) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUserReader) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func newAuthHandler(users *fakeUserReader) *handlers.AuthHandler {
	jwt := auth.NewManager("test-secret-key", time.Hour)
	return handlers.NewAuthHandler(users, nil, jwt)
}

func TestMeHandler(t *testing.T) {
	userID := uuid.NewString()

	stored := user.User{
		ID:        userID,
		Email:     "sam@example.com",
		FirstName: "Sam",
		LastName:  "Doe",
		Role:      "user",
	}

	users := &fakeUserReader{
		getByIDFn: func(ctx context.Context, id string) (user.User, error) {
			if id != userID {
				return user.User{}, user.ErrNotFound
			}
			return stored, nil
		},
	}

	h := newAuthHandler(users)
	r := identityRouter(http.MethodGet, "/auth/me", userID, h.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		User user.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if resp.User.ID != userID || resp.User.Email != "sam@example.com" {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}
}

func TestMeHandlerMissingIdentity(t *testing.T) {
	h := newAuthHandler(&fakeUserReader{})
	r := identityRouter(http.MethodGet, "/auth/me", "", h.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestMeHandlerUserGone(t *testing.T) {
	h := newAuthHandler(&fakeUserReader{})
	r := identityRouter(http.MethodGet, "/auth/me", uuid.NewString(), h.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusNotFound, w.Body.String())
	}
}
