package gitfetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"
)

// RetryableError reports a transient hosting-API failure: rate limiting,
// server errors, or timeouts. The caller may retry with backoff.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s: %v (retryable)", e.Op, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// FatalError reports a failure that retrying cannot fix: the subject does
// not exist or the credentials were rejected.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// classify wraps err as retryable or fatal based on what the hosting API
// reported. Context cancellation passes through unwrapped.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &RetryableError{Op: op, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &RetryableError{Op: op, Err: err}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RetryableError{Op: op, Err: err}
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch {
		case ghErr.Response.StatusCode == http.StatusUnauthorized,
			ghErr.Response.StatusCode == http.StatusForbidden,
			ghErr.Response.StatusCode == http.StatusNotFound:
			return &FatalError{Op: op, Err: err}
		case ghErr.Response.StatusCode >= 500:
			return &RetryableError{Op: op, Err: err}
		}
	}
	return &RetryableError{Op: op, Err: err}
}

// abortsCollection reports whether a repository-scoped failure must stop the
// whole collection pass. Quota exhaustion is API-wide, so moving on to the
// next repository cannot help; rejected credentials will not heal either.
// Everything else is skippable per-repository.
func abortsCollection(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusUnauthorized
	}
	return false
}
