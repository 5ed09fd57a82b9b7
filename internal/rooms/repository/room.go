package repository

import (
	"context"
	"errors"
	"fmt"

	roomserrors "bookcom/internal/rooms/errors"
	"bookcom/pkg/config"
	mongodb "bookcom/pkg/db/mongo"
	"bookcom/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "rooms"
)

type RoomRepository interface {
	FindAll(ctx context.Context) ([]model.Room, error)
	FindByID(ctx context.Context, id string) (model.Room, error)
	FindByEmail(ctx context.Context, email string) ([]model.Room, error)
	SetBooking(ctx context.Context, id string, booking *model.RoomBooking) (*mongo.UpdateResult, error)
	SetReviews(ctx context.Context, id string, reviews []any) (*mongo.UpdateResult, error)
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoRoomRepository) FindAll(ctx context.Context) ([]model.Room, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoRoomRepository) FindByEmail(ctx context.Context, email string) ([]model.Room, error) {
	return r.find(ctx, bson.M{model.FieldEmail: email})
}

func (r *mongoRoomRepository) find(ctx context.Context, filter bson.M) ([]model.Room, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := make([]model.Room, 0)
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (model.Room, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var room model.Room
	err = r.collection.FindOne(ctx, bson.M{model.FieldID: oid}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	return room, nil
}

func (r *mongoRoomRepository) SetBooking(ctx context.Context, id string, booking *model.RoomBooking) (*mongo.UpdateResult, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			model.FieldBooked: true,
			model.FieldEmail:  booking.Email,
			model.FieldTime:   booking.Time,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{model.FieldID: oid}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to book room: %w", err)
	}

	return result, nil
}

// SetReviews replaces the whole reviews array. Concurrent appends race and
// the last writer wins.
func (r *mongoRoomRepository) SetReviews(ctx context.Context, id string, reviews []any) (*mongo.UpdateResult, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{model.FieldReviews: reviews}}

	result, err := r.collection.UpdateOne(ctx, bson.M{model.FieldID: oid}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update room reviews: %w", err)
	}

	return result, nil
}
