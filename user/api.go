package user

import (
	"context"
)

// API defines the staff user operations
type API interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, userID int64) (*User, error)
	GetCurrent(ctx context.Context) (*User, error)
}

var _ API = (*Service)(nil)
