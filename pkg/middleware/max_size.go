package middleware

import "net/http"

// MaxRequestSize caps request bodies at limit bytes. Declared oversize bodies
// are rejected up front; the rest fail on read with *http.MaxBytesError.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeJSONError(w, http.StatusRequestEntityTooLarge, `{"code":"INVALID_INPUT","message":"Request body too large"}`)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
