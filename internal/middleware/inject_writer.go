package middleware

import "net/http"

// InjectWriter wraps the response writer once, at the outermost layer, so that
// every later middleware and handler shares the same write-once guard.
func InjectWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := w.(*SafeResponseWriter); ok {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(NewSafeResponseWriter(r.Context(), w), r)
	})
}
