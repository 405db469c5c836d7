package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sangnt1552314/ytloop/internal/logging"
	"github.com/sangnt1552314/ytloop/internal/models"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding errors are only logged: the status line is already out.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an {"error": message} body with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, models.ErrorResponse{Error: message})
}

func writeJSONStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": status})
}
