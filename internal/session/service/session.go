package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookcom/internal/session/validator"
	"bookcom/pkg/config"
	apperrors "bookcom/pkg/errors"
	"bookcom/pkg/model"
	"bookcom/pkg/sanitizer"
	"bookcom/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidClaims = errors.New("token claims are not an object")

type SessionService interface {
	// Issue signs a token for identity and returns the cookie carrying it.
	Issue(identity *model.Identity) (*http.Cookie, error)
	// Revoke returns a cookie that clears the session cookie. Tokens already
	// handed out stay valid until they expire.
	Revoke() *http.Cookie
	Verify(token string) (*model.Identity, error)
}

type sessionService struct {
	secret    []byte
	ttl       time.Duration
	validator *validator.IdentityValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewSessionService(validator *validator.IdentityValidator, cfg *config.Config) SessionService {
	return newSessionService(validator, cfg, time.Now)
}

func newSessionService(validator *validator.IdentityValidator, cfg *config.Config, now func() time.Time) *sessionService {
	return &sessionService{
		secret:    []byte(cfg.AccessTokenSecret),
		ttl:       cfg.TokenTTL,
		validator: validator,
		cfg:       cfg,
		now:       now,
	}
}

func (s *sessionService) Issue(identity *model.Identity) (*http.Cookie, error) {
	if identity == nil {
		return nil, apperrors.InvalidInput("identity is required")
	}

	identity.Email = sanitizer.NormalizeEmail(identity.Email)
	if err := s.validator.Validate(identity); err != nil {
		s.cfg.Log.Warn("Session identity validation failed", "error", err)
		var validationErrs validation.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Invalid identity", validationErrs.Details())
		}
		return nil, apperrors.Validation("Invalid identity", map[string]any{"error": err.Error()})
	}

	token, err := s.sign(identity)
	if err != nil {
		s.cfg.Log.Error("Failed to sign session token", "error", err)
		return nil, apperrors.Internal("Internal Server Error", err)
	}

	s.cfg.Log.Info("Session token issued", "email", identity.Email)
	return s.cookie(token), nil
}

func (s *sessionService) sign(identity *model.Identity) (string, error) {
	issuedAt := s.now()

	claims := jwt.MapClaims{}
	for k, v := range identity.Claims {
		claims[k] = v
	}
	claims[model.FieldEmail] = identity.Email
	claims["iat"] = issuedAt.Unix()
	claims["exp"] = issuedAt.Add(s.ttl).Unix()

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *sessionService) Verify(token string) (*model.Identity, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	identity := model.IdentityFromClaims(model.Document(claims))
	return &identity, nil
}

func (s *sessionService) cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     model.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func (s *sessionService) Revoke() *http.Cookie {
	c := s.cookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
