package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout adds a deadline to the request context. `seconds` is the budget
// for the whole request, outbound calls included.
func Timeout(seconds time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), seconds*time.Second)
			defer cancel()

			r = r.WithContext(ctx)
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
