package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	roomserrors "bookcom/internal/rooms/errors"
	"bookcom/internal/rooms/validator"
	"bookcom/pkg/config"
	apperrors "bookcom/pkg/errors"
	"bookcom/pkg/events"
	"bookcom/pkg/logger"
	"bookcom/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// In-memory room repository
// ────────────────────────────────────────────────

type mockRoomRepository struct {
	rooms   map[string]model.Room
	findErr error
}

func newMockRoomRepository(rooms ...model.Room) *mockRoomRepository {
	m := &mockRoomRepository{rooms: map[string]model.Room{}}
	for _, room := range rooms {
		m.rooms[room.IDHex()] = room
	}
	return m
}

func (m *mockRoomRepository) FindAll(ctx context.Context) ([]model.Room, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []model.Room
	for _, room := range m.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (model.Room, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, roomserrors.ErrInvalidID
	}
	room, ok := m.rooms[id]
	if !ok {
		return nil, roomserrors.ErrNotFound
	}
	return room.Clone(), nil
}

func (m *mockRoomRepository) FindByEmail(ctx context.Context, email string) ([]model.Room, error) {
	var out []model.Room
	for _, room := range m.rooms {
		if room.String(model.FieldEmail) == email {
			out = append(out, room)
		}
	}
	return out, nil
}

func (m *mockRoomRepository) SetBooking(ctx context.Context, id string, booking *model.RoomBooking) (*mongo.UpdateResult, error) {
	room, ok := m.rooms[id]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	room[model.FieldBooked] = true
	room[model.FieldEmail] = booking.Email
	room[model.FieldTime] = booking.Time
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockRoomRepository) SetReviews(ctx context.Context, id string, reviews []any) (*mongo.UpdateResult, error) {
	room, ok := m.rooms[id]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	room[model.FieldReviews] = reviews
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestRoomService(repo *mockRoomRepository) (RoomService, *recordingPublisher) {
	log := logger.Discard()
	cfg := &config.Config{Log: log, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	pub := &recordingPublisher{}
	dispatcher := events.NewDispatcher(pub, "test", time.Second, log)
	return NewRoomService(repo, validator.NewRoomValidator(), dispatcher, cfg), pub
}

func decodeUpdate(t *testing.T, body string) *model.RoomUpdate {
	t.Helper()
	var u model.RoomUpdate
	if err := u.UnmarshalJSON([]byte(body)); err != nil {
		t.Fatalf("failed to decode %s: %v", body, err)
	}
	return &u
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	if got := apperrors.AsAppError(err).StatusCode(); got != status {
		t.Fatalf("expected status %d, got %d (%v)", status, got, err)
	}
}

// ────────────────────────────────────────────────
// Booking a room
// ────────────────────────────────────────────────

func TestUpdate_BookSetsFieldsRegardlessOfPriorState(t *testing.T) {
	priorStates := []model.Room{
		{"name": "Sea view", "price": 120.0},
		{"name": "Garden", "booked": false},
		{"name": "Loft", "booked": true, "email": "old@x.com", "time": "yesterday"},
	}

	for _, prior := range priorStates {
		oid := primitive.NewObjectID()
		room := prior.WithID(oid)
		repo := newMockRoomRepository(room)
		svc, pub := newTestRoomService(repo)

		update := decodeUpdate(t, `{"booked":true,"email":"a@x.com","time":"2024-05-01T10:00"}`)
		result, err := svc.Update(context.Background(), oid.Hex(), update)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", prior["name"], err)
		}
		if result.MatchedCount != 1 || !result.Acknowledged {
			t.Errorf("%s: unexpected result %+v", prior["name"], result)
		}

		stored := repo.rooms[oid.Hex()]
		if stored[model.FieldBooked] != true || stored[model.FieldEmail] != "a@x.com" || stored[model.FieldTime] != "2024-05-01T10:00" {
			t.Errorf("%s: unexpected stored room %v", prior["name"], stored)
		}
		if len(pub.events) != 1 || pub.events[0].Type != events.TypeRoomBooked {
			t.Errorf("%s: expected a room.booked event, got %v", prior["name"], pub.events)
		}
	}
}

func TestUpdate_BookTrimsEmail(t *testing.T) {
	oid := primitive.NewObjectID()
	repo := newMockRoomRepository(model.Room{model.FieldID: oid})
	svc, _ := newTestRoomService(repo)

	_, err := svc.Update(context.Background(), oid.Hex(), decodeUpdate(t, `{"booked":true,"email":"  a@x.com ","time":"noon"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.rooms[oid.Hex()][model.FieldEmail]; got != "a@x.com" {
		t.Errorf("expected trimmed email, got %q", got)
	}
}

func TestUpdate_BookRequiresEmailAndTime(t *testing.T) {
	oid := primitive.NewObjectID()
	repo := newMockRoomRepository(model.Room{model.FieldID: oid})
	svc, pub := newTestRoomService(repo)

	bodies := []string{
		`{"booked":true,"time":"noon"}`,
		`{"booked":true,"email":"a@x.com"}`,
		`{"booked":true,"email":"","time":""}`,
		`{"booked":true,"email":"   ","time":"noon"}`,
	}
	for _, body := range bodies {
		_, err := svc.Update(context.Background(), oid.Hex(), decodeUpdate(t, body))
		assertStatus(t, err, http.StatusBadRequest)
	}

	if repo.rooms[oid.Hex()][model.FieldBooked] != nil {
		t.Error("invalid bookings must not touch the room")
	}
	if len(pub.events) != 0 {
		t.Errorf("expected no events, got %d", len(pub.events))
	}
}

// ────────────────────────────────────────────────
// Reviewing a room
// ────────────────────────────────────────────────

func TestUpdate_ReviewAppendsExactlyOne(t *testing.T) {
	oid := primitive.NewObjectID()
	existing := primitive.A{
		primitive.M{"review": "first", "rating": 4.0},
		primitive.M{"review": "second", "rating": 5.0},
	}
	repo := newMockRoomRepository(model.Room{model.FieldID: oid, model.FieldReviews: existing})
	svc, pub := newTestRoomService(repo)

	_, err := svc.Update(context.Background(), oid.Hex(), decodeUpdate(t, `{"review":"third","rating":3,"user":"a@x.com"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reviews, ok := repo.rooms[oid.Hex()][model.FieldReviews].([]any)
	if !ok {
		t.Fatalf("expected reviews array, got %T", repo.rooms[oid.Hex()][model.FieldReviews])
	}
	if len(reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(reviews))
	}
	for i, want := range []string{"first", "second"} {
		if reviews[i].(primitive.M)["review"] != want {
			t.Errorf("review %d: expected %q, got %v", i, want, reviews[i])
		}
	}
	last := reviews[2].(model.Document)
	if last["review"] != "third" || last["user"] != "a@x.com" {
		t.Errorf("expected the whole body to be appended, got %v", last)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.TypeRoomReviewed {
		t.Errorf("expected a room.reviewed event, got %v", pub.events)
	}
}

func TestUpdate_ReviewInitialisesMissingArray(t *testing.T) {
	oid := primitive.NewObjectID()
	repo := newMockRoomRepository(model.Room{model.FieldID: oid, "name": "Loft"})
	svc, _ := newTestRoomService(repo)

	_, err := svc.Update(context.Background(), oid.Hex(), decodeUpdate(t, `{"review":"lovely"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reviews := repo.rooms[oid.Hex()][model.FieldReviews].([]any)
	if len(reviews) != 1 {
		t.Errorf("expected 1 review, got %d", len(reviews))
	}
}

func TestUpdate_ReviewOnMissingRoom(t *testing.T) {
	svc, _ := newTestRoomService(newMockRoomRepository())

	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), decodeUpdate(t, `{"review":"where am I"}`))
	assertStatus(t, err, http.StatusNotFound)
}

// ────────────────────────────────────────────────
// Unknown shapes and bad ids
// ────────────────────────────────────────────────

func TestUpdate_UnrecognizedShape(t *testing.T) {
	oid := primitive.NewObjectID()
	repo := newMockRoomRepository(model.Room{model.FieldID: oid})
	svc, pub := newTestRoomService(repo)

	for _, body := range []string{`{}`, `{"booked":false}`, `{"review":""}`, `{"name":"x"}`} {
		_, err := svc.Update(context.Background(), oid.Hex(), decodeUpdate(t, body))
		assertStatus(t, err, http.StatusBadRequest)
		if apperrors.AsAppError(err).Message != "unrecognized room update" {
			t.Errorf("%s: unexpected message %q", body, apperrors.AsAppError(err).Message)
		}
	}
	if len(pub.events) != 0 {
		t.Errorf("expected no events, got %d", len(pub.events))
	}
}

func TestUpdate_InvalidID(t *testing.T) {
	svc, _ := newTestRoomService(newMockRoomRepository())

	_, err := svc.Update(context.Background(), "not-an-id", decodeUpdate(t, `{"review":"x"}`))
	assertStatus(t, err, http.StatusBadRequest)
}

// ────────────────────────────────────────────────
// Reads
// ────────────────────────────────────────────────

func TestGetByID(t *testing.T) {
	oid := primitive.NewObjectID()
	svc, _ := newTestRoomService(newMockRoomRepository(model.Room{model.FieldID: oid, "name": "Loft"}))

	room, err := svc.GetByID(context.Background(), oid.Hex())
	if err != nil || room["name"] != "Loft" {
		t.Fatalf("expected the room, got %v (%v)", room, err)
	}

	missing, err := svc.GetByID(context.Background(), primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("missing rooms are not an error, got %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil room, got %v", missing)
	}

	_, err = svc.GetByID(context.Background(), "zzz")
	assertStatus(t, err, http.StatusBadRequest)
}

func TestGetAll(t *testing.T) {
	svc, _ := newTestRoomService(newMockRoomRepository())

	rooms, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rooms == nil || len(rooms) != 0 {
		t.Errorf("expected an empty, non-nil list, got %#v", rooms)
	}

	repo := newMockRoomRepository()
	repo.findErr = errors.New("server selection timeout")
	svc, _ = newTestRoomService(repo)
	_, err = svc.GetAll(context.Background())
	assertStatus(t, err, http.StatusInternalServerError)
}
