// Package handler adapts the shop services to HTTP actions.
package handler

import (
	"errors"

	"swag-shop/internal/domain"
	"swag-shop/internal/notify"
	"swag-shop/internal/service"
	"swag-shop/internal/transport/http/ez"
	resp "swag-shop/internal/transport/http/response"
)

// toAction maps a service error onto its envelope code.
func toAction(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrValidation):
		return ez.Fail(resp.CodeBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrWrongTemporaryPassword),
		errors.Is(err, service.ErrExpired):
		return ez.Fail(resp.CodeUnauthorized, err.Error(), err)
	case errors.Is(err, service.ErrUserNotFound):
		return ez.Fail(resp.CodeNotFound, err.Error(), err)
	case errors.Is(err, service.ErrInsufficientStock):
		return ez.Fail(resp.CodeConflict, err.Error(), err)
	case errors.Is(err, notify.ErrNotification):
		return ez.Fail(resp.CodeBadGateway, "notification failed", err)
	case errors.Is(err, domain.ErrStoreIO):
		return ez.Internal("store unavailable", err)
	default:
		return ez.Internal("internal error", err)
	}
}
