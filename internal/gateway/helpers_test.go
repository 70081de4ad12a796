package gateway

import (
	"encoding/json"
	"net/http"
)

// decodeJSON decodes a request body in test handlers.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON encodes v as the response body in test handlers.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
