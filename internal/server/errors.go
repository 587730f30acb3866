package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/simplegeohq/simplegeoapi/internal/account/domain"
	geocodedomain "github.com/simplegeohq/simplegeoapi/internal/geocode/domain"
	"github.com/simplegeohq/simplegeoapi/internal/quota"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

// ErrorHandlingMiddleware is the terminal error writer: handlers push errors
// through c.Error and this maps the last one to a status and JSON body.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var statusErr *geocodedomain.ProviderStatusError

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, geocodedomain.ErrAddressRequired),
		errors.Is(err, geocodedomain.ErrCoordinatesRequired),
		errors.Is(err, accountdomain.ErrInvalidEmail),
		errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidPlan):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, geocodedomain.ErrNoResults):
		return http.StatusBadRequest, errorPayload{
			Type:    "no_results",
			Message: "could not geocode the given input",
		}
	case errors.As(err, &statusErr):
		return http.StatusBadRequest, errorPayload{
			Type:    "geocoding_failed",
			Message: statusErr.Error(),
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, accountdomain.ErrInvalidAPIKey):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "invalid or missing API key",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "this endpoint requires a pro or premium plan",
		}
	case errors.Is(err, accountdomain.ErrEmailExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "email already registered",
		}
	case errors.Is(err, quota.ErrQuotaExceeded):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "quota_exceeded",
			Message: "monthly request quota exceeded",
		}
	case errors.Is(err, quota.ErrDailyQuotaExceeded):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "quota_exceeded",
			Message: "daily request quota exceeded",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests, slow down",
		}
	case errors.Is(err, geocodedomain.ErrProviderUnavailable):
		return http.StatusInternalServerError, errorPayload{
			Type:    "provider_unavailable",
			Message: "geocoding provider unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}
