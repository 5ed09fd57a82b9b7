package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookcom/pkg/logger"
	"bookcom/pkg/middleware"
	"bookcom/pkg/model"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockBookingService struct {
	claimFunc      func(ctx context.Context, identity *model.Identity) ([]model.Booking, error)
	getByIDFunc    func(ctx context.Context, id string) (model.Booking, error)
	createFunc     func(ctx context.Context, booking model.Booking) (*model.InsertResult, error)
	updateTimeFunc func(ctx context.Context, id string, update *model.BookingTimeUpdate) (*model.UpdateResult, error)
	deleteFunc     func(ctx context.Context, id string) (*model.DeleteResult, error)
}

func (m *mockBookingService) Claim(ctx context.Context, identity *model.Identity) ([]model.Booking, error) {
	return m.claimFunc(ctx, identity)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (model.Booking, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBookingService) Create(ctx context.Context, booking model.Booking) (*model.InsertResult, error) {
	return m.createFunc(ctx, booking)
}

func (m *mockBookingService) UpdateTime(ctx context.Context, id string, update *model.BookingTimeUpdate) (*model.UpdateResult, error) {
	return m.updateTimeFunc(ctx, id, update)
}

func (m *mockBookingService) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	return m.deleteFunc(ctx, id)
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*model.Identity, error) {
	if token != "good" {
		return nil, errors.New("invalid token")
	}
	return &model.Identity{Email: "a@x.com"}, nil
}

func newRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.Discard()
	router := httprouter.New()
	NewBookingHandler(svc, middleware.Authenticate(stubVerifier{}, log), log).RegisterRoutes(router)
	return router
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: model.SessionCookieName, Value: token})
	return req
}

func TestBookingHandler_ClaimRequiresSession(t *testing.T) {
	var gotEmail string
	svc := &mockBookingService{
		claimFunc: func(ctx context.Context, identity *model.Identity) ([]model.Booking, error) {
			gotEmail = identity.Email
			return []model.Booking{{"email": identity.Email}}, nil
		},
	}
	router := newRouter(svc)

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{"no cookie", "", http.StatusUnauthorized},
		{"bad token", "forged", http.StatusUnauthorized},
		{"valid session", "good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
			if tt.token != "" {
				req = withSession(req, tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}

	if gotEmail != "a@x.com" {
		t.Errorf("expected identity from the session, got %q", gotEmail)
	}
}

func TestBookingHandler_GetByIDMissing(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id string) (model.Booking, error) {
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/"+primitive.NewObjectID().Hex(), nil))

	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Errorf("expected 200 null, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestBookingHandler_Create(t *testing.T) {
	id := primitive.NewObjectID()
	var got model.Booking
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, booking model.Booking) (*model.InsertResult, error) {
			got = booking
			return model.NewInsertResult(id), nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"title":"Loft","time":"noon"}`))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got["title"] != "Loft" {
		t.Errorf("unexpected booking passed to service: %v", got)
	}

	var result map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result["insertedId"] != id.Hex() || result["acknowledged"] != true {
		t.Errorf("unexpected result %v", result)
	}
}

func TestBookingHandler_CreateRejectsBadBody(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, booking model.Booking) (*model.InsertResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"title":`))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBookingHandler_UpdateTime(t *testing.T) {
	var gotTime any
	svc := &mockBookingService{
		updateTimeFunc: func(ctx context.Context, id string, update *model.BookingTimeUpdate) (*model.UpdateResult, error) {
			gotTime = update.Time
			return &model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/bookings/abc", strings.NewReader(`{"time":"evening"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}

	req = withSession(httptest.NewRequest(http.MethodPut, "/bookings/abc", strings.NewReader(`{"time":"evening"}`)), "good")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotTime != "evening" {
		t.Errorf("expected time evening, got %v", gotTime)
	}
}

func TestBookingHandler_Delete(t *testing.T) {
	svc := &mockBookingService{
		deleteFunc: func(ctx context.Context, id string) (*model.DeleteResult, error) {
			return &model.DeleteResult{Acknowledged: true}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/bookings/"+primitive.NewObjectID().Hex(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"acknowledged":true,"deletedCount":0}` {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
