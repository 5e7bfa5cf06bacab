package refund

import (
	"context"
	"fmt"

	"github.com/s0up4200/shopadmin/shopify"
)

// Service talks to the order refund endpoints
type Service struct {
	client *shopify.Client
}

// NewService creates a refund service on top of a shop client
func NewService(client *shopify.Client) *Service {
	return &Service{client: client}
}

// ListForOrder retrieves the refunds recorded against an order
func (s *Service) ListForOrder(ctx context.Context, orderID int64, opts *ListOptions) ([]Refund, error) {
	req := shopify.NewRequest(fmt.Sprintf("orders/%d/refunds.json", orderID))
	if err := req.AddParams(opts); err != nil {
		return nil, err
	}

	var refunds []Refund
	if err := s.client.Get(ctx, req, "refunds", &refunds); err != nil {
		return nil, fmt.Errorf("failed to list refunds for order %d: %w", orderID, err)
	}
	return refunds, nil
}

// Get retrieves a single refund. fields limits the returned attributes when non-empty.
func (s *Service) Get(ctx context.Context, orderID, refundID int64, fields string) (*Refund, error) {
	req := shopify.NewRequest(fmt.Sprintf("orders/%d/refunds/%d.json", orderID, refundID))
	if fields != "" {
		req.Set("fields", fields)
	}

	var refund Refund
	if err := s.client.Get(ctx, req, "refund", &refund); err != nil {
		return nil, fmt.Errorf("failed to get refund %d: %w", refundID, err)
	}
	return &refund, nil
}

// Calculate asks Shopify for the transactions a refund would produce. Nothing is
// refunded; use ToRefundTransactions on the result before passing it to Create.
func (s *Service) Calculate(ctx context.Context, orderID int64, refund *Refund) (*Refund, error) {
	req := shopify.NewRequest(fmt.Sprintf("orders/%d/refunds/calculate.json", orderID))

	var calculated Refund
	if err := s.client.Post(ctx, req, refundBody(refund), "refund", &calculated); err != nil {
		return nil, fmt.Errorf("failed to calculate refund for order %d: %w", orderID, err)
	}
	return &calculated, nil
}

// Create issues a refund for an order
func (s *Service) Create(ctx context.Context, orderID int64, refund *Refund) (*Refund, error) {
	req := shopify.NewRequest(fmt.Sprintf("orders/%d/refunds.json", orderID))

	var created Refund
	if err := s.client.Post(ctx, req, refundBody(refund), "refund", &created); err != nil {
		return nil, fmt.Errorf("failed to create refund for order %d: %w", orderID, err)
	}
	return &created, nil
}

func refundBody(refund *Refund) *shopify.Body {
	if refund == nil {
		return shopify.JSONBody(shopify.Wrap("refund", struct{}{}))
	}
	return shopify.JSONBody(shopify.Wrap("refund", refund))
}
