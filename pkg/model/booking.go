package model

// Booking is a document of the bookings collection: a copy of a room taken
// when it was claimed, or whatever the client posted.
type Booking = Document

type BookingTimeUpdate struct {
	Time any `json:"time" validate:"required"`
}
