package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/connector-stripe/internal/connector/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

// Connector error codes
const (
	CodeStripeAuth           = "STRIPE_AUTH_ERROR"
	CodeStripeRateLimit      = "STRIPE_RATE_LIMIT"
	CodeStripeInvalidRequest = "STRIPE_INVALID_REQUEST"
	CodeUpstream             = "UPSTREAM_ERROR"
)

// ErrorClass is the public face of a failure
type ErrorClass struct {
	Code    string
	Message string
	Status  int
}

var (
	classStripeAuth = ErrorClass{
		Code:    CodeStripeAuth,
		Message: "Invalid Stripe API key",
		Status:  http.StatusUnauthorized,
	}
	classStripeRateLimit = ErrorClass{
		Code:    CodeStripeRateLimit,
		Message: "Too many requests, please retry shortly",
		Status:  http.StatusTooManyRequests,
	}
	classStripeInvalidRequest = ErrorClass{
		Code:    CodeStripeInvalidRequest,
		Message: "Invalid request to Stripe API",
		Status:  http.StatusBadRequest,
	}
	classUpstream = ErrorClass{
		Code:    CodeUpstream,
		Message: "Failed to process request",
		Status:  http.StatusInternalServerError,
	}
)

// ClassifyError maps any error to exactly one connector error class.
// Only Stripe API errors get a specific class; everything else, nil included, is UPSTREAM_ERROR.
func ClassifyError(err error) ErrorClass {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return classUpstream
	}

	switch {
	case stripeErr.HTTPStatusCode == http.StatusUnauthorized:
		return classStripeAuth
	case stripeErr.HTTPStatusCode == http.StatusTooManyRequests || stripeErr.Code == stripe.ErrorCodeRateLimit:
		return classStripeRateLimit
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		return classStripeInvalidRequest
	default:
		return classUpstream
	}
}

// RespondWithError classifies err, logs it as connector.error and writes the error envelope
func RespondWithError(c *gin.Context, logger *slog.Logger, err error, start time.Time) {
	class := ClassifyError(err)

	logger.Error("Request failed",
		"evt", "connector.error",
		"errorCode", class.Code,
		"error", err,
		"durationMs", time.Since(start).Milliseconds(),
		"path", c.Request.URL.Path,
		"org_id", middleware.GetOrgID(c),
		"correlation_id", middleware.GetCorrelationID(c),
	)

	respondError(c, class.Status, class.Code, class.Message)
}
