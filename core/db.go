package core

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errInvalidID = errors.New("invalid id")

// ParseID converts a hex document identifier into a primitive.ObjectID.
// Malformed identifiers are reported as a ValidationError on `field`.
func ParseID(hex, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(CleanString(hex))
	if err != nil {
		return primitive.NilObjectID, NewValidationError(errInvalidID, FieldError{Field: field, Error: errInvalidID.Error()})
	}
	return id, nil
}
