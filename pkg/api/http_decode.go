package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const maxBodyBytes int64 = 1 << 20

// decodeJSONBody decodes a JSON request body into dst, bounding the body
// size. It returns the HTTP status to respond with on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) (int, error) {
	if r == nil || r.Body == nil {
		return http.StatusBadRequest, fmt.Errorf("request body required")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body too large (max %d bytes)", maxBodyBytes)
		}
		return http.StatusBadRequest, err
	}
	return 0, nil
}
