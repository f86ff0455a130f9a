package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"
)

// Sweeper is the minimal interface needed to trigger the expiry sweep.
type Sweeper interface {
	Run(ctx context.Context, ttl time.Duration) (int, error)
}

// HandleSweep triggers the expiry sweep. When token is non-empty the
// caller must present it, mirroring a token-protected cron endpoint.
func HandleSweep(svc Sweeper, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if token != "" {
			supplied := r.URL.Query().Get("token")
			if subtle.ConstantTimeCompare([]byte(token), []byte(supplied)) != 1 {
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
				return
			}
		}

		var ttl time.Duration
		if raw := r.URL.Query().Get("ttl"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid ttl")
				return
			}
			ttl = parsed
		}

		cancelled, err := svc.Run(r.Context(), ttl)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sweepResponse{Cancelled: cancelled})
	}
}

type sweepResponse struct {
	Cancelled int `json:"cancelled"`
}
