package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"vbank/internal/api"
)

// writeJSON renders v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

// writeError renders the canonical error body every service speaks:
// {"status": ..., "error": ..., "message": ...}.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.Error{Status: status, Code: code, Message: message})
}

// writeUpstreamError translates a backend call failure. Structured backend
// errors keep their declared status and code; transport failures surface
// as 502 so the caller can tell "the gateway is fine, a backend is not".
func writeUpstreamError(w http.ResponseWriter, err error) {
	if apiErr, ok := api.AsError(err); ok && !apiErr.IsNetwork() {
		writeError(w, apiErr.Status, apiErr.Code, apiErr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "Upstream Unavailable", "a backend service did not respond")
}
