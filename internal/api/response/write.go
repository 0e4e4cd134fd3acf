package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response. Bodies carry session tokens and per-player
// standings, so nothing is cacheable.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// StatusOK writes a 200 with a {"status": ...} body
func StatusOK(w http.ResponseWriter, status string) {
	JSON(w, http.StatusOK, Status{Status: status})
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
