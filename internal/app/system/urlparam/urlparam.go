// Package urlparam extracts typed chi URL parameters.
package urlparam

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bughive/bughive/internal/app/system/respond"
)

// ObjectID reads the named chi URL parameter as a Mongo ObjectID. On a
// missing or malformed value it writes a 400 INVALID_INPUT response and
// returns false; the handler must return immediately.
func ObjectID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		respond.InvalidInput(w, "malformed "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
