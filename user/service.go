package user

import (
	"context"
	"fmt"

	"github.com/s0up4200/shopadmin/shopify"
)

// Service talks to the staff user endpoints
type Service struct {
	client *shopify.Client
}

// NewService creates a user service on top of a shop client
func NewService(client *shopify.Client) *Service {
	return &Service{client: client}
}

// List retrieves every staff user of the shop
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.client.Get(ctx, shopify.NewRequest("users.json"), "users", &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get retrieves a single user by ID
func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	var u User
	req := shopify.NewRequest(fmt.Sprintf("users/%d.json", userID))
	if err := s.client.Get(ctx, req, "user", &u); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &u, nil
}

// GetCurrent retrieves the user the access token belongs to. Only works with
// tokens obtained through online-access OAuth.
func (s *Service) GetCurrent(ctx context.Context) (*User, error) {
	var u User
	if err := s.client.Get(ctx, shopify.NewRequest("users/current.json"), "user", &u); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &u, nil
}
