// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to HTTP problems carrying the user-facing message

package handlers

import (
	"net/http"

	"newshub-core/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error, fallback string) error {
	if err == nil {
		return nil
	}

	msg := errors.UserMessage(err, fallback)

	switch {
	case errors.IsValidation(err):
		return huma.Error400BadRequest(msg, err)
	case errors.IsNotFound(err):
		return huma.Error404NotFound(msg, err)
	case errors.IsCancelled(err):
		return huma.NewError(499, msg, err)
	case errors.IsTimeout(err):
		return huma.Error504GatewayTimeout(msg, err)
	}

	// Provider failures surface as a bad gateway unless the caller can act on them
	if code := errors.StatusCode(err); code != 0 {
		switch code {
		case http.StatusNotFound:
			return huma.Error404NotFound(msg, err)
		case http.StatusTooManyRequests:
			return huma.Error429TooManyRequests(msg, err)
		}
		return huma.Error502BadGateway(msg, err)
	}
	if errors.IsNetwork(err) || errors.IsNoData(err) {
		return huma.Error502BadGateway(msg, err)
	}

	return huma.Error500InternalServerError(msg, err)
}
