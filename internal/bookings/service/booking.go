package service

import (
	"context"
	"errors"

	bookingserrors "bookcom/internal/bookings/errors"
	"bookcom/internal/bookings/repository"
	"bookcom/internal/bookings/validator"
	"bookcom/pkg/config"
	mongodb "bookcom/pkg/db/mongo"
	apperrors "bookcom/pkg/errors"
	"bookcom/pkg/events"
	"bookcom/pkg/metrics"
	"bookcom/pkg/model"
	"bookcom/pkg/validation"
)

// RoomFinder looks up the rooms booked under an email.
type RoomFinder interface {
	FindByEmail(ctx context.Context, email string) ([]model.Room, error)
}

type BookingService interface {
	// Claim copies every room booked under the caller's email into the
	// bookings collection and returns the stored copies.
	Claim(ctx context.Context, identity *model.Identity) ([]model.Booking, error)
	// GetByID returns a nil booking, not an error, when no booking has the id.
	GetByID(ctx context.Context, id string) (model.Booking, error)
	Create(ctx context.Context, booking model.Booking) (*model.InsertResult, error)
	UpdateTime(ctx context.Context, id string, update *model.BookingTimeUpdate) (*model.UpdateResult, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	rooms     RoomFinder
	validator *validator.BookingValidator
	events    *events.Dispatcher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	rooms RoomFinder,
	validator *validator.BookingValidator,
	events *events.Dispatcher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		rooms:     rooms,
		validator: validator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *bookingService) Claim(ctx context.Context, identity *model.Identity) ([]model.Booking, error) {
	if identity == nil || identity.Email == "" {
		return nil, apperrors.Forbidden("forbidden access")
	}

	rooms, err := s.rooms.FindByEmail(ctx, identity.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to find rooms for claim", "email", identity.Email, "error", err)
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	if len(rooms) == 0 {
		return []model.Booking{}, nil
	}

	result, err := s.repo.InsertManyWithReassign(ctx, rooms)
	if err != nil {
		s.cfg.Log.Error("Failed to claim rooms as bookings",
			"email", identity.Email,
			"rooms", len(rooms),
			"duplicate_key", mongodb.IsDuplicateKey(err),
			"error", err,
		)
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	if result.Reassigned {
		metrics.IncIDReassignment("claim")
		s.cfg.Log.Warn("Claimed bookings were stored under fresh ids", "email", identity.Email, "count", len(result.IDs))
	}

	bookings, err := s.repo.FindByIDs(ctx, result.IDs)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch claimed bookings", "email", identity.Email, "error", err)
		return nil, apperrors.Internal("Internal Server Error", err)
	}

	metrics.AddBookingsClaimed(len(bookings))
	s.events.Emit(ctx, events.New(events.TypeBookingsClaimed, identity.Email, map[string]any{
		"email":      identity.Email,
		"ids":        result.IDs,
		"reassigned": result.Reassigned,
	}))
	s.cfg.Log.Info("Rooms claimed as bookings", "email", identity.Email, "count", len(bookings), "reassigned", result.Reassigned)

	return bookings, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, nil
		}
		return nil, s.translateError("Failed to retrieve booking", id, err)
	}
	return booking, nil
}

func (s *bookingService) Create(ctx context.Context, booking model.Booking) (*model.InsertResult, error) {
	if booking == nil {
		return nil, apperrors.InvalidInput("Request body is required")
	}
	if err := booking.NormalizeID(); err != nil {
		return nil, apperrors.InvalidInput("Invalid booking ID format")
	}

	result, err := s.repo.InsertOneWithReassign(ctx, booking)
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	if result.Reassigned {
		metrics.IncIDReassignment("create")
		s.cfg.Log.Warn("Booking stored under a fresh id", "requested_id", booking.IDHex(), "id", result.IDs[0])
	}

	id := result.IDs[0]
	metrics.IncBookingCreated()
	s.events.Emit(ctx, events.New(events.TypeBookingCreated, idKey(id), map[string]any{
		"id":         id,
		"email":      booking.String(model.FieldEmail),
		"reassigned": result.Reassigned,
	}))
	s.cfg.Log.Info("Booking created", "id", id, "reassigned", result.Reassigned)

	return model.NewInsertResult(id), nil
}

// UpdateTime reschedules a booking. Any authenticated caller may reschedule
// any booking.
func (s *bookingService) UpdateTime(ctx context.Context, id string, update *model.BookingTimeUpdate) (*model.UpdateResult, error) {
	if update == nil {
		update = &model.BookingTimeUpdate{}
	}
	if err := s.validator.ValidateTimeUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking time validation failed", "id", id, "error", err)
		var validationErrs validation.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Invalid booking time", validationErrs.Details())
		}
		return nil, apperrors.Validation("Invalid booking time", map[string]any{"error": err.Error()})
	}

	result, err := s.repo.UpdateTime(ctx, id, update.Time)
	if err != nil {
		return nil, s.translateError("Failed to update booking", id, err)
	}

	s.events.Emit(ctx, events.New(events.TypeBookingRescheduled, id, map[string]any{
		"id":      id,
		"time":    update.Time,
		"matched": result.MatchedCount,
	}))
	s.cfg.Log.Info("Booking rescheduled", "id", id, "matched", result.MatchedCount)

	return model.NewUpdateResult(result), nil
}

func (s *bookingService) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	result, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.translateError("Failed to delete booking", id, err)
	}

	metrics.AddBookingsDeleted(result.DeletedCount)
	if result.DeletedCount > 0 {
		s.events.Emit(ctx, events.New(events.TypeBookingDeleted, id, map[string]any{"id": id}))
	}
	s.cfg.Log.Info("Booking deleted", "id", id, "deleted", result.DeletedCount)

	return model.NewDeleteResult(result), nil
}

func (s *bookingService) translateError(message, id string, err error) error {
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func idKey(id any) string {
	return model.Document{model.FieldID: id}.IDHex()
}
