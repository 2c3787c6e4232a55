package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/superdupermart/storefront/internal/domain/profile"
	"github.com/superdupermart/storefront/internal/domain/shared"
)

// ProfileService fetches and updates the current user's account data
type ProfileService struct {
	client *Client
}

// Get returns the current user's profile
func (s *ProfileService) Get(ctx context.Context) (profile.UserProfile, error) {
	var p profile.UserProfile
	if err := s.client.doJSON(ctx, http.MethodGet, "/profile", nil, &p); err != nil {
		return profile.UserProfile{}, err
	}
	return p, nil
}

// Update changes email and/or password
func (s *ProfileService) Update(ctx context.Context, req profile.UpdateRequest) (string, error) {
	if err := shared.Validate(req); err != nil {
		return "", err
	}
	return s.client.doText(ctx, http.MethodPut, "/profile", req)
}

// UploadPicture replaces the profile picture
func (s *ProfileService) UploadPicture(ctx context.Context, filename string, picture io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("picture", filename)
	if err != nil {
		return fmt.Errorf("failed to build picture upload: %w", err)
	}
	if _, err := io.Copy(part, picture); err != nil {
		return fmt.Errorf("failed to read picture: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize picture upload: %w", err)
	}

	_, err = s.client.doRaw(ctx, http.MethodPost, "/profile/picture", &buf, writer.FormDataContentType())
	return err
}

// Addresses returns the user's saved shipping addresses
func (s *ProfileService) Addresses(ctx context.Context) ([]profile.Address, error) {
	var addresses []profile.Address
	if err := s.client.doJSON(ctx, http.MethodGet, "/profile/addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// AddAddress saves a new shipping address
func (s *ProfileService) AddAddress(ctx context.Context, addr profile.Address) (profile.Address, error) {
	var saved profile.Address
	if err := shared.Validate(addr); err != nil {
		return saved, err
	}
	if err := s.client.doJSON(ctx, http.MethodPost, "/profile/addresses", addr, &saved); err != nil {
		return profile.Address{}, err
	}
	return saved, nil
}

// PaymentMethods returns the user's saved payment methods
func (s *ProfileService) PaymentMethods(ctx context.Context) ([]profile.PaymentMethod, error) {
	var methods []profile.PaymentMethod
	if err := s.client.doJSON(ctx, http.MethodGet, "/profile/payment-methods", nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// AddPaymentMethod saves a new payment method summary
func (s *ProfileService) AddPaymentMethod(ctx context.Context, pm profile.PaymentMethod) (profile.PaymentMethod, error) {
	var saved profile.PaymentMethod
	if err := shared.Validate(pm); err != nil {
		return saved, err
	}
	if err := s.client.doJSON(ctx, http.MethodPost, "/profile/payment-methods", pm, &saved); err != nil {
		return profile.PaymentMethod{}, err
	}
	return saved, nil
}
