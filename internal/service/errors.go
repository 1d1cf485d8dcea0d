package service

import (
	"context"
	"errors"

	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

// wrapInternal hides infrastructure failures behind a generic message. Cancelled or expired
// request contexts surface as SERVICE_UNAVAILABLE.
func wrapInternal(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
