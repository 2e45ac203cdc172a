package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"staffing/internal/transport/http/api"
)

// DecodeJSON reads one JSON object into dst. Unknown fields are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, requestID string, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			api.Fail(w, http.StatusRequestEntityTooLarge, "body_too_large", fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), requestID)
		case errors.Is(err, io.EOF):
			api.Fail(w, http.StatusBadRequest, "invalid_json", "request body is empty", requestID)
		default:
			api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload: "+err.Error(), requestID)
		}
		return false
	}
	return true
}
