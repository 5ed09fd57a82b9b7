package mongo

import (
	"context"
	"fmt"

	"bookcom/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// InsertFunc writes docs to a collection and returns the ids the store
// reports, in input order.
type InsertFunc func(ctx context.Context, docs []model.Document) ([]any, error)

type ReassignResult struct {
	IDs []any
	// Reassigned is true when the first attempt hit a duplicate key and the
	// batch was written again under fresh ids.
	Reassigned bool
}

// InsertReassigningOnDuplicate inserts docs once. If the store rejects the
// write with a duplicate key error, every document of the batch gets a new
// ObjectID and the batch is inserted exactly once more. Any other error, or
// a second failure, is returned as is.
//
// Documents written before the collision on an ordered insert stay in place,
// so a retried batch may leave earlier copies behind.
func InsertReassigningOnDuplicate(ctx context.Context, docs []model.Document, insert InsertFunc) (*ReassignResult, error) {
	ids, err := insert(ctx, docs)
	if err == nil {
		return &ReassignResult{IDs: ids}, nil
	}
	if !IsDuplicateKey(err) {
		return nil, err
	}

	retry := ReassignIDs(docs)
	ids, err = insert(ctx, retry)
	if err != nil {
		return nil, fmt.Errorf("insert after id reassignment: %w", err)
	}
	return &ReassignResult{IDs: ids, Reassigned: true}, nil
}

// ReassignIDs returns copies of docs, each with a freshly generated ObjectID.
func ReassignIDs(docs []model.Document) []model.Document {
	out := make([]model.Document, len(docs))
	for i, doc := range docs {
		out[i] = doc.WithID(primitive.NewObjectID())
	}
	return out
}

func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}
