package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "bookcom/internal/bookings/errors"
	"bookcom/pkg/config"
	mongodb "bookcom/pkg/db/mongo"
	"bookcom/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "bookings"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id string) (model.Booking, error)
	FindByIDs(ctx context.Context, ids []any) ([]model.Booking, error)
	// InsertOneWithReassign inserts booking, retrying once under a fresh id
	// when its id is already taken.
	InsertOneWithReassign(ctx context.Context, booking model.Booking) (*mongodb.ReassignResult, error)
	// InsertManyWithReassign inserts bookings as one ordered batch. On a
	// duplicate key the whole batch is retried once under fresh ids.
	InsertManyWithReassign(ctx context.Context, bookings []model.Booking) (*mongodb.ReassignResult, error)
	UpdateTime(ctx context.Context, id string, time any) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) (*mongo.DeleteResult, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{model.FieldID: oid}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return booking, nil
}

func (r *mongoBookingRepository) FindByIDs(ctx context.Context, ids []any) ([]model.Booking, error) {
	bookings := make([]model.Booking, 0, len(ids))
	if len(ids) == 0 {
		return bookings, nil
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{model.FieldID: bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) InsertOneWithReassign(ctx context.Context, booking model.Booking) (*mongodb.ReassignResult, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := mongodb.InsertReassigningOnDuplicate(ctx, []model.Document{booking}, r.insertOne)
	if err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}
	return result, nil
}

func (r *mongoBookingRepository) InsertManyWithReassign(ctx context.Context, bookings []model.Booking) (*mongodb.ReassignResult, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := mongodb.InsertReassigningOnDuplicate(ctx, bookings, r.insertMany)
	if err != nil {
		return nil, fmt.Errorf("failed to insert bookings: %w", err)
	}
	return result, nil
}

func (r *mongoBookingRepository) insertOne(ctx context.Context, docs []model.Document) ([]any, error) {
	result, err := r.collection.InsertOne(ctx, docs[0])
	if err != nil {
		return nil, err
	}
	return []any{result.InsertedID}, nil
}

func (r *mongoBookingRepository) insertMany(ctx context.Context, docs []model.Document) ([]any, error) {
	batch := make([]any, len(docs))
	for i, doc := range docs {
		batch[i] = doc
	}

	result, err := r.collection.InsertMany(ctx, batch, options.InsertMany().SetOrdered(true))
	if err != nil {
		return nil, err
	}
	return result.InsertedIDs, nil
}

func (r *mongoBookingRepository) UpdateTime(ctx context.Context, id string, time any) (*mongo.UpdateResult, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{model.FieldTime: time}}

	result, err := r.collection.UpdateOne(ctx, bson.M{model.FieldID: oid}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking time: %w", err)
	}

	return result, nil
}

// Delete removes at most one booking. A missing id is not an error; the
// result reports zero deletions.
func (r *mongoBookingRepository) Delete(ctx context.Context, id string) (*mongo.DeleteResult, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{model.FieldID: oid})
	if err != nil {
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}

	return result, nil
}
