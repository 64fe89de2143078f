// Package shared holds request helpers used by every JSON feature.
package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads r's body into dst and validates it. On failure it
// writes a 400 and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "Request body must be valid JSON."
		if errors.Is(err, io.EOF) {
			msg = "Request body is required."
		}
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, msg)
		return false
	}
	if res := inputval.Validate(dst); res.HasErrors() {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, res.First())
		return false
	}
	return true
}

// PathID parses the chi URL parameter name as an ObjectID. On failure it
// writes a 400 and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Invalid id.")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// OptionalID parses hex as an ObjectID pointer; "" yields nil.
func OptionalID(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, err
	}
	return &oid, nil
}
