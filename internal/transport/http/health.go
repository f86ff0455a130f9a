package http

import (
	"encoding/json"
	stdhttp "net/http"
)

// HealthHandler reports liveness. It deliberately touches nothing: a
// database outage surfaces as request errors, not as a dead process.
func HealthHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stdhttp.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
