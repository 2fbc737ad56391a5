package common

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the single error body shape used by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithServiceError maps err to a status code. Server-side failures are
// logged and replaced with fallback so no driver text reaches the client.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	code := HTTPStatusFromError(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		RespondWithError(w, code, fallback)
		return
	}
	RespondWithError(w, code, err.Error())
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondNoContent writes a 204 with an empty body.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
