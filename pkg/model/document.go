package model

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const FieldID = "_id"

var ErrInvalidDocumentID = errors.New("document _id must be a 24 character hex string")

// Document is a schema-free record. Rooms and bookings carry descriptive
// fields the API never interprets, so they travel as maps and keep whatever
// the web client or seed data put in them.
type Document map[string]any

func (d Document) ID() any {
	return d[FieldID]
}

// IDHex returns the hex form of an ObjectID _id, or the string form of any
// other id type.
func (d Document) IDHex() string {
	switch id := d[FieldID].(type) {
	case primitive.ObjectID:
		return id.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

func (d Document) String(key string) string {
	if s, ok := d[key].(string); ok {
		return s
	}
	return ""
}

// Clone is shallow: nested values are shared with the receiver.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (d Document) WithID(id any) Document {
	out := d.Clone()
	out[FieldID] = id
	return out
}

// NormalizeID converts an _id decoded from JSON into an ObjectID so it
// matches the ids the store generates.
func (d Document) NormalizeID() error {
	raw, ok := d[FieldID]
	if !ok || raw == nil {
		delete(d, FieldID)
		return nil
	}

	switch id := raw.(type) {
	case primitive.ObjectID:
		return nil
	case string:
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDocumentID, id)
		}
		d[FieldID] = oid
		return nil
	default:
		return fmt.Errorf("%w: got %T", ErrInvalidDocumentID, raw)
	}
}

// Truthy reports whether v would pass a loose JSON truthiness check: false,
// zero, empty string and null are falsy, everything else is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}
