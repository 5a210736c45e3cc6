package handlers

import (
	"errors"
	"net/http"

	"eventboard/internal/apperror"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

// RespondDomainError maps a service-layer error onto the HTTP surface.
func RespondDomainError(ctx *gin.Context, err error) {
	var appErr *apperror.Error

	if !errors.As(err, &appErr) {
		RespondInternal(ctx, "Something went wrong")
		return
	}

	switch appErr.Kind {
	case apperror.KindNotFound:
		RespondError(ctx, http.StatusNotFound, appErr.Code, appErr.Message, nil)
	case apperror.KindRuleViolation:
		RespondError(ctx, http.StatusConflict, appErr.Code, appErr.Message, nil)
	case apperror.KindInvalidArgument:
		RespondError(ctx, http.StatusBadRequest, appErr.Code, appErr.Message, nil)
	default:
		RespondInternal(ctx, "Something went wrong")
	}
}
