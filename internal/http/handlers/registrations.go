package handlers

import (
	"context"
	"net/http"
	"time"

	"eventboard/internal/cache"
	"eventboard/internal/config"
	"eventboard/internal/domain/registration"
	"eventboard/internal/http/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegistrationCoordinator interface {
	Register(ctx context.Context, eventID, userID string) error
	Unregister(ctx context.Context, eventID, userID string) error
	Participants(ctx context.Context, eventID string) ([]registration.Participant, error)
	Participant(ctx context.Context, eventID, userID string) (registration.Participant, error)
}

type RegistrationsHandler struct {
	coordinator RegistrationCoordinator
	cache       cache.Cache
}

func NewRegistrationsHandler(coordinator RegistrationCoordinator, listCache cache.Cache) *RegistrationsHandler {
	return &RegistrationsHandler{
		coordinator: coordinator,
		cache:       listCache,
	}
}

func (h *RegistrationsHandler) Register(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if uuid.Validate(eventID) != nil {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	// identity comes from the access token, never the body
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.coordinator.Register(cctx, eventID, userID)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	// registration moves the participant count shown on list pages
	if h.cache != nil {
		h.cache.Clear(cctx)
	}

	ctx.Status(http.StatusCreated)
}

func (h *RegistrationsHandler) Unregister(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if uuid.Validate(eventID) != nil {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.coordinator.Unregister(cctx, eventID, userID)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	if h.cache != nil {
		h.cache.Clear(cctx)
	}

	ctx.Status(http.StatusNoContent)
}

func (h *RegistrationsHandler) ListParticipants(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if uuid.Validate(eventID) != nil {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	participants, err := h.coordinator.Participants(cctx, eventID)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"eventId":      eventID,
		"count":        len(participants),
		"participants": participants,
	})
}

func (h *RegistrationsHandler) GetParticipant(ctx *gin.Context) {
	eventID := ctx.Param("id")
	userID := ctx.Param("userId")

	if uuid.Validate(eventID) != nil {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	if uuid.Validate(userID) != nil {
		RespondBadRequest(ctx, "user id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	participant, err := h.coordinator.Participant(cctx, eventID, userID)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, participant)
}
