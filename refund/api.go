package refund

import (
	"context"
)

// API defines the refund operations
type API interface {
	// ListForOrder retrieves all refunds of an order
	ListForOrder(ctx context.Context, orderID int64, opts *ListOptions) ([]Refund, error)

	// Get retrieves one refund of an order
	Get(ctx context.Context, orderID, refundID int64, fields string) (*Refund, error)

	// Calculate computes refund transactions without creating a refund
	Calculate(ctx context.Context, orderID int64, refund *Refund) (*Refund, error)

	// Create refunds an order
	Create(ctx context.Context, orderID int64, refund *Refund) (*Refund, error)
}

var _ API = (*Service)(nil)
