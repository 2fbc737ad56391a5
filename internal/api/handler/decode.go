package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"inventory_api/internal/common"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. It writes a 400 and returns
// false when the body is not valid JSON; decoder detail stays in the log.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.DebugContext(r.Context(), "rejected request body", "path", r.URL.Path, "error", err)
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
