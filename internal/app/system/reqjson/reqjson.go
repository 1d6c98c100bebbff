// Package reqjson decodes JSON request bodies with a size cap.
package reqjson

import (
	"encoding/json"
	"net/http"

	"github.com/bughive/bughive/internal/app/system/limits"
	"github.com/bughive/bughive/internal/app/system/respond"
)

// Decode reads the request body into dst. On malformed or oversized
// input it writes a 400 INVALID_INPUT response and returns false; the
// handler must return immediately.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respond.InvalidInput(w, "malformed JSON body")
		return false
	}
	return true
}
