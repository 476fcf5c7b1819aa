package middleware

import "net/http"

// BodyLimit caps every request body at limit bytes. The cap is installed
// before any handler or token check parses the body, so an oversized upload
// fails during the first read instead of buffering to temp files.
func BodyLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
