package model

import "go.mongodb.org/mongo-driver/mongo"

// The result types below keep the field names of the Node.js driver results
// the web client was written against.

type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func NewInsertResult(id any) *InsertResult {
	return &InsertResult{Acknowledged: true, InsertedID: id}
}

func NewUpdateResult(r *mongo.UpdateResult) *UpdateResult {
	if r == nil {
		return &UpdateResult{Acknowledged: true}
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  r.MatchedCount,
		ModifiedCount: r.ModifiedCount,
		UpsertedCount: r.UpsertedCount,
		UpsertedID:    r.UpsertedID,
	}
}

func NewDeleteResult(r *mongo.DeleteResult) *DeleteResult {
	if r == nil {
		return &DeleteResult{Acknowledged: true}
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: r.DeletedCount}
}
