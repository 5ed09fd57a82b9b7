package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookcom/pkg/logger"
)

func TestIdempotency_ReplaysFirstSuccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"acknowledged":true,"insertedId":"x"}`))
	})
	handler := Idempotency(store, "", logger.Discard())(next)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
		req.Header.Set(DefaultIdempotencyHeader, "key-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	second := send()

	if calls != 1 {
		t.Errorf("expected handler to run once, ran %d times", calls)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("expected replayed body %q, got %q", first.Body.String(), second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Error("expected replay marker header")
	}
}

func TestIdempotency_SkipsFailuresAndOtherMethods(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	calls := 0
	status := http.StatusInternalServerError
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(status)
	})
	handler := Idempotency(store, "", logger.Discard())(next)

	for _, method := range []string{http.MethodPost, http.MethodPost, http.MethodPut, http.MethodPut} {
		req := httptest.NewRequest(method, "/bookings", nil)
		req.Header.Set(DefaultIdempotencyHeader, "key-2")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		status = http.StatusOK
	}

	if calls != 4 {
		t.Errorf("expected 4 handler calls, got %d", calls)
	}
}

func TestIdempotency_ScopedToPaths(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	calls := map[string]int{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls[r.URL.Path]++
		w.WriteHeader(http.StatusOK)
	})
	handler := Idempotency(store, "", logger.Discard(), "/bookings")(next)

	for _, path := range []string{"/bookings", "/bookings", "/jwt", "/jwt"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set(DefaultIdempotencyHeader, "same-key")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls["/bookings"] != 1 {
		t.Errorf("expected /bookings to run once, ran %d times", calls["/bookings"])
	}
	if calls["/jwt"] != 2 {
		t.Errorf("expected /jwt to run every time, ran %d times", calls["/jwt"])
	}
}

func TestIdempotency_NeverStoresCookies(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.SetCookie(w, &http.Cookie{Name: "token", Value: r.URL.Query().Get("who")})
		w.WriteHeader(http.StatusOK)
	})
	handler := Idempotency(store, "", logger.Discard())(next)

	for _, who := range []string{"first", "second"} {
		req := httptest.NewRequest(http.MethodPost, "/jwt?who="+who, nil)
		req.Header.Set(DefaultIdempotencyHeader, "key-3")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Value != who {
			t.Errorf("expected a cookie for %s, got %v", who, cookies)
		}
	}
	if calls != 2 {
		t.Errorf("expected 2 handler calls, got %d", calls)
	}
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	defer store.Stop()

	ctx := context.Background()
	_ = store.Set(ctx, "k", &CachedResponse{StatusCode: http.StatusOK})
	time.Sleep(5 * time.Millisecond)

	if _, found, _ := store.Get(ctx, "k"); found {
		t.Error("expected entry to expire")
	}
}

func TestContentTypeValidation(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		wantStatus  int
	}{
		{"json post", http.MethodPost, `{}`, "application/json", http.StatusOK},
		{"json with charset", http.MethodPut, `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"form post", http.MethodPost, `a=b`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"bodyless post", http.MethodPost, "", "", http.StatusOK},
		{"get", http.MethodGet, "", "text/plain", http.StatusOK},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := ContentTypeValidation(logger.Discard())(next)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, "/logOut", body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestContentTypeValidation_ExemptPath(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := ContentTypeValidation(logger.Discard(), "/logOut")(next)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/logOut", http.StatusOK},
		{"/bookings", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader("bye"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tt.wantStatus {
			t.Errorf("%s: expected status %d, got %d", tt.path, tt.wantStatus, rec.Code)
		}
	}
}

func TestMaxRequestSize(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := MaxRequestSize(8)(next)

	small := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, small)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for small body, got %d", rec.Code)
	}

	large := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"name":"far too long"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, large)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for large body, got %d", rec.Code)
	}
}

func TestRequestTimeout(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(50 * time.Millisecond)
	})
	handler := RequestTimeout(10 * time.Millisecond)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestRecovery(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map")
	})
	handler := Recovery(logger.Discard())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})
	handler := RequestLogging(logger.Discard())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a request id in context")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("expected response header %q, got %q", seen, rec.Header().Get(RequestIDHeader))
	}
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/rooms":                               "/rooms",
		"/rooms/65f1c0ffee65f1c0ffee65f1":      "/rooms/:id",
		"/bookings/65F1C0FFEE65F1C0FFEE65F1":   "/bookings/:id",
		"/bookings/65f1c0ffee65f1c0ffee65f1/x": "/bookings/:id/x",
	}
	for path, want := range tests {
		if got := routeLabel(path); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := CORS([]string{"https://book-com.web.app"})(next)

	allowed := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	allowed.Header.Set("Origin", "https://book-com.web.app")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, allowed)
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://book-com.web.app" {
		t.Errorf("expected allowed origin header, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials to be allowed")
	}

	denied := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	denied.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, denied)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS header for unknown origin")
	}
}
