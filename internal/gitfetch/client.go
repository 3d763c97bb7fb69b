package gitfetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// newGitHubClient builds a hosting-API client. With a token it authenticates
// through an oauth2 static-token transport; without one it talks to the
// public API anonymously at the lower request quota.
func newGitHubClient(token string) *github.Client {
	var base http.RoundTripper = http.DefaultTransport
	if token != "" {
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   http.DefaultTransport,
		}
	}
	httpClient := &http.Client{
		Transport: &quotaTransport{base: base},
		Timeout:   30 * time.Second,
	}
	return github.NewClient(httpClient)
}

// quotaTransport wraps an http.RoundTripper and watches the quota-remaining
// headers on every response, pausing before the quota runs out and honoring
// Retry-After when the API throttles.
type quotaTransport struct {
	base http.RoundTripper
}

const (
	maxRetries   = 3
	quotaFloor   = 10
	maxQuotaWait = 15 * time.Minute
)

func (t *quotaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := range maxRetries {
		resp, err = t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		isRateLimited := resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests

		// Proactively pause when approaching the quota floor, but only if the
		// current response is not already rate-limited (avoids double-sleep).
		if !isRateLimited {
			if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
				rem, parseErr := strconv.Atoi(remaining)
				if parseErr == nil && rem <= quotaFloor {
					resetStr := resp.Header.Get("X-RateLimit-Reset")
					resetUnix, parseErr := strconv.ParseInt(resetStr, 10, 64)
					if parseErr == nil {
						wait := time.Until(time.Unix(resetUnix, 0))
						if wait > 0 && wait < maxQuotaWait {
							slog.Warn("approaching hosting API rate limit, pausing",
								"remaining", rem, "wait", wait.Round(time.Second))
							if err := sleepContext(req.Context(), wait+time.Second); err != nil {
								resp.Body.Close()
								return nil, err
							}
						}
					}
				}
			}
			return resp, nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		secs, parseErr := strconv.Atoi(retryAfter)
		if parseErr != nil || secs <= 0 || secs >= int(maxQuotaWait.Seconds()) {
			return resp, nil
		}

		slog.Warn("rate limited, retrying", "retry_after", secs, "attempt", attempt+1)
		resp.Body.Close()
		if err := sleepContext(req.Context(), time.Duration(secs)*time.Second); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("hosting API rate limit: retries exhausted after %d attempts", maxRetries)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
