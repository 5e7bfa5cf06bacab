package payments

import (
	"context"
	"fmt"

	"github.com/s0up4200/shopadmin/shopify"
)

// Service talks to the Shopify Payments endpoints
type Service struct {
	client *shopify.Client
}

// NewService creates a Shopify Payments service on top of a shop client
func NewService(client *shopify.Client) *Service {
	return &Service{client: client}
}

// IsEnabled reports whether the shop uses Shopify Payments. Every payments endpoint
// answers 404 when it does not, so the balance endpoint serves as the probe.
func (s *Service) IsEnabled(ctx context.Context) (bool, error) {
	if _, err := s.GetBalance(ctx); err != nil {
		if apiErr, ok := shopify.AsAPIError(err); ok && apiErr.IsNotFound() {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetBalance retrieves the current balance, one entry per currency
func (s *Service) GetBalance(ctx context.Context) ([]Balance, error) {
	var balance []Balance
	if err := s.client.Get(ctx, shopify.NewRequest("shopify_payments/balance.json"), "balance", &balance); err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// ListPayouts retrieves payouts, most recent first
func (s *Service) ListPayouts(ctx context.Context, filter *PayoutFilter) ([]Payout, error) {
	req := shopify.NewRequest("shopify_payments/payouts.json")
	if err := req.AddParams(filter); err != nil {
		return nil, err
	}

	var payouts []Payout
	if err := s.client.Get(ctx, req, "payouts", &payouts); err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	return payouts, nil
}

// GetPayout retrieves a single payout
func (s *Service) GetPayout(ctx context.Context, payoutID int64) (*Payout, error) {
	req := shopify.NewRequest(fmt.Sprintf("shopify_payments/payouts/%d.json", payoutID))

	var payout Payout
	if err := s.client.Get(ctx, req, "payout", &payout); err != nil {
		return nil, fmt.Errorf("failed to get payout %d: %w", payoutID, err)
	}
	return &payout, nil
}

// ListDisputes retrieves disputes, most recent first
func (s *Service) ListDisputes(ctx context.Context, filter *DisputeFilter) ([]Dispute, error) {
	req := shopify.NewRequest("shopify_payments/disputes.json")
	if err := req.AddParams(filter); err != nil {
		return nil, err
	}

	var disputes []Dispute
	if err := s.client.Get(ctx, req, "disputes", &disputes); err != nil {
		return nil, fmt.Errorf("failed to list disputes: %w", err)
	}
	return disputes, nil
}

// GetDispute retrieves a single dispute
func (s *Service) GetDispute(ctx context.Context, disputeID int64) (*Dispute, error) {
	req := shopify.NewRequest(fmt.Sprintf("shopify_payments/disputes/%d.json", disputeID))

	var dispute Dispute
	if err := s.client.Get(ctx, req, "dispute", &dispute); err != nil {
		return nil, fmt.Errorf("failed to get dispute %d: %w", disputeID, err)
	}
	return &dispute, nil
}

// ListTransactions retrieves balance transactions
func (s *Service) ListTransactions(ctx context.Context, filter *TransactionFilter) ([]Transaction, error) {
	req := shopify.NewRequest("shopify_payments/balance/transactions.json")
	if err := req.AddParams(filter); err != nil {
		return nil, err
	}

	var transactions []Transaction
	if err := s.client.Get(ctx, req, "transactions", &transactions); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}
