package model

import "encoding/json"

// Identity is what a session token asserts about its bearer. Claims holds
// every field posted to /jwt, email included, and is signed as-is.
type Identity struct {
	Email  string   `json:"email" validate:"required,email"`
	Claims Document `json:"-"`
}

func (i *Identity) UnmarshalJSON(data []byte) error {
	var claims Document
	if err := json.Unmarshal(data, &claims); err != nil {
		return err
	}
	*i = IdentityFromClaims(claims)
	return nil
}

func IdentityFromClaims(claims Document) Identity {
	if claims == nil {
		claims = Document{}
	}
	return Identity{
		Email:  claims.String(FieldEmail),
		Claims: claims,
	}
}

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "token"
