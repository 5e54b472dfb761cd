package domain

import (
	"errors"
	"fmt"
)

var (
	ErrContentNotFound   = errors.New("content not found")
	ErrContentNotPending = errors.New("content not pending review")
	ErrNoEndpoints       = errors.New("no classification endpoints configured")
	ErrRateLimited       = errors.New("endpoint rate limited")
	ErrMalformedResponse = errors.New("malformed classification response")
	ErrReportNotFound    = errors.New("review report not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
