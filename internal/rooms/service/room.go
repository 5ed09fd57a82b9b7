package service

import (
	"context"
	"errors"

	roomserrors "bookcom/internal/rooms/errors"
	"bookcom/internal/rooms/repository"
	"bookcom/internal/rooms/validator"
	"bookcom/pkg/config"
	apperrors "bookcom/pkg/errors"
	"bookcom/pkg/events"
	"bookcom/pkg/metrics"
	"bookcom/pkg/model"
	"bookcom/pkg/sanitizer"
	"bookcom/pkg/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoomService interface {
	GetAll(ctx context.Context) ([]model.Room, error)
	// GetByID returns a nil room, not an error, when no room has the id.
	GetByID(ctx context.Context, id string) (model.Room, error)
	Update(ctx context.Context, id string, update *model.RoomUpdate) (*model.UpdateResult, error)
}

type roomService struct {
	repo      repository.RoomRepository
	validator *validator.RoomValidator
	events    *events.Dispatcher
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	validator *validator.RoomValidator,
	events *events.Dispatcher,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		validator: validator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *roomService) GetAll(ctx context.Context) ([]model.Room, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return rooms, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, nil
		}
		return nil, s.translateError("Failed to retrieve room", id, err)
	}
	return room, nil
}

// Update applies one of the two room updates. Neither is guarded against
// concurrent writers: bookings overwrite each other and concurrent reviews
// can drop one another.
func (s *roomService) Update(ctx context.Context, id string, update *model.RoomUpdate) (*model.UpdateResult, error) {
	if update == nil {
		return nil, apperrors.InvalidInput("unrecognized room update")
	}

	switch update.Kind {
	case model.RoomUpdateBook:
		return s.book(ctx, id, update.Booking)
	case model.RoomUpdateReview:
		return s.addReview(ctx, id, update.Review)
	default:
		s.cfg.Log.Warn("Unrecognized room update", "id", id)
		return nil, apperrors.InvalidInput("unrecognized room update")
	}
}

func (s *roomService) book(ctx context.Context, id string, booking *model.RoomBooking) (*model.UpdateResult, error) {
	booking.Email = sanitizer.NormalizeEmail(booking.Email)
	if err := s.validator.ValidateBooking(booking); err != nil {
		s.cfg.Log.Warn("Room booking validation failed", "id", id, "error", err)
		var validationErrs validation.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Invalid room booking", validationErrs.Details())
		}
		return nil, apperrors.Validation("Invalid room booking", map[string]any{"error": err.Error()})
	}

	result, err := s.repo.SetBooking(ctx, id, booking)
	if err != nil {
		return nil, s.translateError("Failed to book room", id, err)
	}

	metrics.IncRoomUpdate(model.RoomUpdateBook.String())
	s.events.Emit(ctx, events.New(events.TypeRoomBooked, id, map[string]any{
		"room_id": id,
		"email":   booking.Email,
		"time":    booking.Time,
		"matched": result.MatchedCount,
	}))
	s.cfg.Log.Info("Room booked", "id", id, "email", booking.Email, "matched", result.MatchedCount)

	return model.NewUpdateResult(result), nil
}

func (s *roomService) addReview(ctx context.Context, id string, review model.Document) (*model.UpdateResult, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		return nil, s.translateError("Failed to retrieve room", id, err)
	}

	reviews := appendReview(room[model.FieldReviews], review)

	result, err := s.repo.SetReviews(ctx, id, reviews)
	if err != nil {
		return nil, s.translateError("Failed to add review", id, err)
	}

	metrics.IncRoomUpdate(model.RoomUpdateReview.String())
	s.events.Emit(ctx, events.New(events.TypeRoomReviewed, id, map[string]any{
		"room_id": id,
		"review":  review,
		"count":   len(reviews),
	}))
	s.cfg.Log.Info("Room review added", "id", id, "reviews", len(reviews))

	return model.NewUpdateResult(result), nil
}

// appendReview returns existing with review appended. Anything that is not
// an array starts a fresh one.
func appendReview(existing any, review model.Document) []any {
	var reviews []any
	switch r := existing.(type) {
	case primitive.A:
		reviews = make([]any, 0, len(r)+1)
		reviews = append(reviews, r...)
	case []any:
		reviews = make([]any, 0, len(r)+1)
		reviews = append(reviews, r...)
	default:
		reviews = make([]any, 0, 1)
	}
	return append(reviews, review)
}

func (s *roomService) translateError(message, id string, err error) error {
	if errors.Is(err, roomserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid room ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}
