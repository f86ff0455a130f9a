package http

import "net/http"

// NotFoundHandler is the catch-all route, so unknown paths get the same
// JSON error shape as everything else.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
}
