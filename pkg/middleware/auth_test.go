package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookcom/pkg/logger"
	"bookcom/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type stubVerifier struct {
	identities map[string]*model.Identity
}

func (v *stubVerifier) Verify(token string) (*model.Identity, error) {
	if id, ok := v.identities[token]; ok {
		return id, nil
	}
	return nil, errors.New("token is expired")
}

func TestAuthenticate(t *testing.T) {
	verifier := &stubVerifier{identities: map[string]*model.Identity{
		"good": {Email: "a@x.com"},
	}}

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
		wantEmail  string
	}{
		{"missing cookie", nil, http.StatusUnauthorized, ""},
		{"empty cookie", &http.Cookie{Name: model.SessionCookieName, Value: ""}, http.StatusUnauthorized, ""},
		{"invalid token", &http.Cookie{Name: model.SessionCookieName, Value: "forged"}, http.StatusUnauthorized, ""},
		{"other cookie only", &http.Cookie{Name: "session", Value: "good"}, http.StatusUnauthorized, ""},
		{"valid token", &http.Cookie{Name: model.SessionCookieName, Value: "good"}, http.StatusOK, "a@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail string
			called := false
			next := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				called = true
				if id, ok := IdentityFromContext(r.Context()); ok {
					gotEmail = id.Email
				}
				w.WriteHeader(http.StatusOK)
			}

			handler := Authenticate(verifier, logger.Discard())(next)

			req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			handler(rec, req, nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if called {
					t.Error("handler must not run for rejected requests")
				}
				if !strings.Contains(rec.Body.String(), "Unauthorized access") {
					t.Errorf("unexpected body %s", rec.Body.String())
				}
				return
			}
			if gotEmail != tt.wantEmail {
				t.Errorf("expected identity %q in context, got %q", tt.wantEmail, gotEmail)
			}
		})
	}
}

func TestIdentityFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := IdentityFromContext(req.Context()); ok {
		t.Error("expected no identity")
	}
}
