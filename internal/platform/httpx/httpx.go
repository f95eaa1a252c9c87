// Package httpx holds the retry policy shared by the outbound OpenAI and
// SendGrid clients: which failures are worth retrying, how long to wait
// when the upstream says so, and how to spread synchronized backoffs.
package httpx

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// HTTPStatusCoder is implemented by client errors that carry the upstream
// HTTP status code.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

func retryableStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code < 600
}

// IsRetryableError reports whether a request failure is transient: a
// timeout, a reset or refused connection, or an upstream status that
// signals overload rather than a bad request.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return retryableStatus(sc.HTTPStatusCode())
	}
	return false
}

// RetryAfterDuration picks the next sleep: the response's Retry-After
// header when present (delay-seconds or HTTP-date), otherwise the caller's
// backoff, never exceeding limit.
func RetryAfterDuration(resp *http.Response, backoff, limit time.Duration) time.Duration {
	d := backoff
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				d = time.Duration(secs) * time.Second
			} else if at, err := http.ParseTime(ra); err == nil {
				if until := time.Until(at); until > 0 {
					d = until
				}
			}
		}
	}
	if limit > 0 && d > limit {
		d = limit
	}
	return d
}

// JitterSleep spreads a backoff step by up to ±20% so clients that failed
// together do not retry in lockstep.
func JitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	f := 1 + 0.4*(rand.Float64()-0.5)
	return time.Duration(float64(base) * f)
}
