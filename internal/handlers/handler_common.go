package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/middleware"
)

// ErrorResponse is the error body every handler emits. Detail carries the
// human-readable message; RequestID lets support correlate with server logs.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError maps service-layer sentinel errors to HTTP statuses and writes
// the error body. Unrecognized errors become 500s with the fallback message
// so internal detail never leaks.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := middleware.GetRequestIDFromCtx(c.Request.Context())

	status := http.StatusInternalServerError
	detail := fallback
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		detail = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrRefreshTokenExpired):
		status = http.StatusUnauthorized
		detail = err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
		detail = err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		detail = err.Error()
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrIdempotencyMismatch):
		status = http.StatusConflict
		detail = err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{Detail: detail, RequestID: requestID})
}

// bindJSON binds the request body and writes a 400 on failure. Returns false
// when the handler should stop.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Detail:    "Invalid request format: " + err.Error(),
			RequestID: middleware.GetRequestIDFromCtx(c.Request.Context()),
		})
		return false
	}
	return true
}

// callerID extracts the authenticated user ID and writes a 401 when it is
// missing. Returns "" and false when the handler should stop.
func callerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Detail:    "Unauthorized",
			RequestID: middleware.GetRequestIDFromCtx(c.Request.Context()),
		})
		return "", false
	}
	return userID, true
}
