package http

import (
	"context"
	"net/http"
)

// HealthHandler reports basic liveness for the service.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HoldStoreProber checks the hold store with a sentinel roundtrip.
type HoldStoreProber interface {
	HoldStoreHealthy(ctx context.Context) error
}

// HandleHoldStoreHealth probes the hold store. 503 when the roundtrip fails.
func HandleHoldStoreHealth(svc HoldStoreProber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.HoldStoreHealthy(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, codeStoreUnavailable, "hold store unreachable")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
