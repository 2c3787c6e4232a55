package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/superdupermart/storefront/internal/domain/shared"
)

// Role represents the role assigned to an authenticated user
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Session is the authenticated identity held by the client for the
// current login. The token is an opaque bearer credential issued by the
// backend; the client never mints or refreshes it.
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	Role     Role   `json:"role"`
}

// NewSession builds a session from a successful login exchange
func NewSession(username, token string, role Role) (*Session, error) {
	if username == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Username cannot be empty")
	}
	if token == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Token cannot be empty")
	}
	if !role.IsValid() {
		role = RoleUser
	}
	return &Session{Username: username, Token: token, Role: role}, nil
}

// IsAdmin returns true if the session carries the admin role
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// TokenExpiresAt inspects the bearer token's exp claim without verifying
// the signature. The backend remains the arbiter of token validity; this
// is only a hint for the UI (e.g. prompting re-login before checkout).
// Returns the zero time when the token carries no readable expiry.
func (s *Session) TokenExpiresAt() time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// TokenLikelyExpired returns true when the token carries an exp claim in
// the past. An unreadable token is never reported as expired.
func (s *Session) TokenLikelyExpired(now time.Time) bool {
	exp := s.TokenExpiresAt()
	if exp.IsZero() {
		return false
	}
	return exp.Before(now)
}

// LoginRequest carries credentials for the login exchange
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries the fields for account creation
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse is the backend's reply to a successful credential exchange
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Session converts the auth response into a Session value
func (r *AuthResponse) Session() (*Session, error) {
	role := RoleUser
	if r.IsAdmin {
		role = RoleAdmin
	}
	return NewSession(r.Username, r.Token, role)
}
