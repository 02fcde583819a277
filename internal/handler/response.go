package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cupo/internal/repository"
	"cupo/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// InsufficientBalanceResponse is returned when a wallet cannot cover a trip guarantee.
type InsufficientBalanceResponse struct {
	Error     string `json:"error"`
	Required  string `json:"required"`
	Available string `json:"available"`
	Deficit   string `json:"deficit"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	_ = c.Error(err)

	var balanceErr *service.InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		c.JSON(code, InsufficientBalanceResponse{
			Error:     service.ErrInsufficientBalance.Error(),
			Required:  balanceErr.Required.String(),
			Available: balanceErr.Available.String(),
			Deficit:   balanceErr.Deficit.String(),
		})
		return
	}

	if errors.Is(err, service.ErrTransitionInProgress) {
		c.Header("Retry-After", "1")
	}

	if code == http.StatusInternalServerError {
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrDraftNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidSeats),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrPriceBelowMinimum),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidDateTime):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrInvalidStateTransition),
		errors.Is(err, service.ErrTransitionInProgress):
		return http.StatusConflict

	// Business rule errors
	case errors.Is(err, service.ErrCancellationBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusPaymentRequired

	// Service unavailable
	case errors.Is(err, service.ErrConfigUnavailable):
		return http.StatusServiceUnavailable

	// Write failures and anything unexpected
	default:
		return http.StatusInternalServerError
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
