package api

import (
	"context"
	"net/http"

	"github.com/superdupermart/storefront/internal/domain/identity"
	"github.com/superdupermart/storefront/internal/domain/shared"
)

// AuthService exchanges credentials with the backend. Token issuance is
// entirely backend-owned; the client only carries the result around.
type AuthService struct {
	client *Client
}

// Login exchanges credentials for a token, username and role
func (s *AuthService) Login(ctx context.Context, req identity.LoginRequest) (identity.AuthResponse, error) {
	var resp identity.AuthResponse
	if err := shared.Validate(req); err != nil {
		return resp, err
	}
	if err := s.client.doJSON(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return identity.AuthResponse{}, err
	}
	return resp, nil
}

// Register creates a new account. The caller still logs in separately.
func (s *AuthService) Register(ctx context.Context, req identity.RegisterRequest) error {
	if err := shared.Validate(req); err != nil {
		return err
	}
	return s.client.doJSON(ctx, http.MethodPost, "/auth/register", req, nil)
}
