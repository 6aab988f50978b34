package http

import (
	"encoding/json"
	"net/http"
)

// WriteSuccess writes the success envelope, merging the payload's fields
// at the top level next to "success": true.
func WriteSuccess(w http.ResponseWriter, payload interface{}) {
	body := map[string]interface{}{"success": true}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			WriteInternalError(w, CodeInternalError, "Failed to encode response")
			return
		}

		var fields map[string]interface{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			WriteInternalError(w, CodeInternalError, "Failed to encode response")
			return
		}

		for k, v := range fields {
			body[k] = v
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
