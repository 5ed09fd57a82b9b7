package model

import (
	"encoding/json"
)

const (
	FieldBooked  = "booked"
	FieldEmail   = "email"
	FieldTime    = "time"
	FieldReviews = "reviews"
	FieldReview  = "review"
)

// Room is a document of the rooms collection. Rooms are seeded out of band;
// the API only flips the booking fields and appends reviews.
type Room = Document

type RoomUpdateKind int

const (
	RoomUpdateUnknown RoomUpdateKind = iota
	RoomUpdateBook
	RoomUpdateReview
)

func (k RoomUpdateKind) String() string {
	switch k {
	case RoomUpdateBook:
		return "book"
	case RoomUpdateReview:
		return "review"
	default:
		return "unknown"
	}
}

// RoomBooking marks a room as booked by Email at Time.
type RoomBooking struct {
	Booked bool   `json:"booked" validate:"eq=true"`
	Email  string `json:"email" validate:"required"`
	Time   any    `json:"time" validate:"required"`
}

// RoomUpdate is the body of PUT /rooms/:id. Exactly one of Booking and
// Review is set, according to Kind.
type RoomUpdate struct {
	Kind    RoomUpdateKind
	Booking *RoomBooking
	// Review is the whole request body, stored verbatim in the reviews array.
	Review Document
}

func (u *RoomUpdate) UnmarshalJSON(data []byte) error {
	var raw Document
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = RoomUpdate{Kind: RoomUpdateUnknown}

	if isBookedFlag(raw[FieldBooked]) {
		u.Kind = RoomUpdateBook
		u.Booking = &RoomBooking{
			Booked: true,
			Email:  raw.String(FieldEmail),
			Time:   raw[FieldTime],
		}
		return nil
	}

	if Truthy(raw[FieldReview]) {
		u.Kind = RoomUpdateReview
		u.Review = raw
	}

	return nil
}

// isBookedFlag accepts true and the number 1, the two values web clients send
// for the booked checkbox.
func isBookedFlag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t == 1
	default:
		return false
	}
}
