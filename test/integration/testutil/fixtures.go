package testutil

import (
	"bookcom/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoomBuilder struct {
	room model.Room
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		room: model.Room{
			"title":       "Test Room",
			"description": "A quiet room with a view",
			"price":       120.0,
			"capacity":    2,
		},
	}
}

func (b *RoomBuilder) WithTitle(title string) *RoomBuilder {
	b.room["title"] = title
	return b
}

func (b *RoomBuilder) WithID(id primitive.ObjectID) *RoomBuilder {
	b.room[model.FieldID] = id
	return b
}

func (b *RoomBuilder) BookedBy(email string, time any) *RoomBuilder {
	b.room[model.FieldBooked] = true
	b.room[model.FieldEmail] = email
	b.room[model.FieldTime] = time
	return b
}

func (b *RoomBuilder) Build() model.Room {
	return b.room.Clone()
}
