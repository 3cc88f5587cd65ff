package middleware

import (
	"net/http"
	"time"
)

const timeoutBody = `{"error":"request timeout"}`

// Timeout bounds each request by the given duration. Requests that miss the
// deadline receive a 503 with a JSON body; late handler writes are discarded
// by http.TimeoutHandler rather than racing the timeout response.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}
