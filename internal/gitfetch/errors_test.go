package gitfetch

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-github/v68/github"
)

func httpResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Request:    &http.Request{Method: "GET", URL: &url.URL{Path: "/"}},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantRetryable bool
		wantFatal     bool
	}{
		{
			name:          "rate limit exceeded",
			err:           &github.RateLimitError{Response: httpResponse(http.StatusForbidden)},
			wantRetryable: true,
		},
		{
			name:          "secondary rate limit",
			err:           &github.AbuseRateLimitError{Response: httpResponse(http.StatusForbidden)},
			wantRetryable: true,
		},
		{
			name:      "unauthorized",
			err:       &github.ErrorResponse{Response: httpResponse(http.StatusUnauthorized)},
			wantFatal: true,
		},
		{
			name:      "forbidden",
			err:       &github.ErrorResponse{Response: httpResponse(http.StatusForbidden)},
			wantFatal: true,
		},
		{
			name:      "not found",
			err:       &github.ErrorResponse{Response: httpResponse(http.StatusNotFound)},
			wantFatal: true,
		},
		{
			name:          "server error",
			err:           &github.ErrorResponse{Response: httpResponse(http.StatusBadGateway)},
			wantRetryable: true,
		},
		{
			name:          "deadline exceeded",
			err:           context.DeadlineExceeded,
			wantRetryable: true,
		},
		{
			name:          "generic network failure",
			err:           errors.New("connection reset by peer"),
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("listing repositories", tt.err)
			var retryable *RetryableError
			var fatal *FatalError
			if errors.As(got, &retryable) != tt.wantRetryable {
				t.Errorf("retryable = %v, want %v", !tt.wantRetryable, tt.wantRetryable)
			}
			if errors.As(got, &fatal) != tt.wantFatal {
				t.Errorf("fatal = %v, want %v", !tt.wantFatal, tt.wantFatal)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classified error does not wrap the original")
			}
		})
	}
}

func TestClassifyCanceledPassesThrough(t *testing.T) {
	got := classify("listing repositories", context.Canceled)
	if got != context.Canceled {
		t.Fatalf("classify(context.Canceled) = %v, want context.Canceled unchanged", got)
	}
}

func TestAbortsCollection(t *testing.T) {
	wrap := func(err error) error {
		return &RetryableError{Op: "listing commits", Err: err}
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "rate limit aborts",
			err:  wrap(&github.RateLimitError{Response: httpResponse(http.StatusForbidden)}),
			want: true,
		},
		{
			name: "secondary rate limit aborts",
			err:  wrap(&github.AbuseRateLimitError{Response: httpResponse(http.StatusForbidden)}),
			want: true,
		},
		{
			name: "unauthorized aborts",
			err:  &FatalError{Op: "fetching readme", Err: &github.ErrorResponse{Response: httpResponse(http.StatusUnauthorized)}},
			want: true,
		},
		{
			name: "cancellation aborts",
			err:  context.Canceled,
			want: true,
		},
		{
			name: "missing repository skips",
			err:  &FatalError{Op: "fetching readme", Err: &github.ErrorResponse{Response: httpResponse(http.StatusNotFound)}},
			want: false,
		},
		{
			name: "transient failure skips",
			err:  wrap(errors.New("connection reset by peer")),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := abortsCollection(tt.err); got != tt.want {
				t.Errorf("abortsCollection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	inner := errors.New("boom")

	retryable := &RetryableError{Op: "listing commits", Err: inner}
	if got := retryable.Error(); got != "listing commits: boom (retryable)" {
		t.Errorf("RetryableError.Error() = %q", got)
	}
	if !errors.Is(retryable, inner) {
		t.Error("RetryableError does not unwrap")
	}

	fatal := &FatalError{Op: "fetching subject", Err: inner}
	if got := fatal.Error(); got != "fetching subject: boom" {
		t.Errorf("FatalError.Error() = %q", got)
	}
	if !errors.Is(fatal, inner) {
		t.Error("FatalError does not unwrap")
	}
}
