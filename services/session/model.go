package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	UID         string
	UserUID     string
	Email       string
	Name        string
	Role        string
	AccessToken string `datastore:",noindex"`
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type Registration struct {
	Name     string `json:"name" form:"name" validate:"required,min=2"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,min=8"`
	City     string `json:"city" form:"city"`
	State    string `json:"state" form:"state"`
}

// tokenResponse is what the credential service returns on a successful
// exchange.
type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// identityClaims is the subset of the access token we care about. The token
// is minted and verified by the credential service, we only read it.
type identityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
