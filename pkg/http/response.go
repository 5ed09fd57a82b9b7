package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "bookcom/pkg/errors"
)

type SuccessResponse struct {
	Success bool `json:"success"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err as {"code", "message"} with the AppError status.
// Errors that are not AppErrors become an opaque 500.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), appErr.Response())
}

func WriteOK(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteSuccess(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func WriteText(w http.ResponseWriter, statusCode int, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := io.WriteString(w, text)
	return err
}

// DecodeJSON decodes a request body into target. An empty body is reported
// as ErrEmptyBody so callers can decide whether it is acceptable.
func DecodeJSON(r *http.Request, target any) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return ErrBodyTooLarge
	}
	return err
}

var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrBodyTooLarge = errors.New("request body too large")
)

// DecodeFailure maps a DecodeJSON error to the 400 the client sees.
func DecodeFailure(err error) error {
	switch {
	case errors.Is(err, ErrEmptyBody):
		return apperrors.InvalidInput("Request body is required")
	case errors.Is(err, ErrBodyTooLarge):
		return apperrors.InvalidInput("Request body too large")
	default:
		return apperrors.InvalidInput("Invalid request body")
	}
}
