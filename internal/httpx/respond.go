// Package httpx holds the response envelope shared by every endpoint:
// a success flag, a human-readable message, and optional data keys.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Envelope map[string]any

func WriteJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func WriteSuccess(w http.ResponseWriter, logger *slog.Logger, status int, body Envelope) {
	out := Envelope{"success": true}
	for k, v := range body {
		out[k] = v
	}
	WriteJSON(w, logger, status, out)
}

func WriteError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	WriteJSON(w, logger, status, Envelope{"success": false, "message": message})
}
