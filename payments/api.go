package payments

import (
	"context"
)

// API defines the Shopify Payments operations
type API interface {
	// IsEnabled reports whether Shopify Payments is active on the shop
	IsEnabled(ctx context.Context) (bool, error)

	GetBalance(ctx context.Context) ([]Balance, error)

	ListPayouts(ctx context.Context, filter *PayoutFilter) ([]Payout, error)
	GetPayout(ctx context.Context, payoutID int64) (*Payout, error)

	ListDisputes(ctx context.Context, filter *DisputeFilter) ([]Dispute, error)
	GetDispute(ctx context.Context, disputeID int64) (*Dispute, error)

	ListTransactions(ctx context.Context, filter *TransactionFilter) ([]Transaction, error)
}

var _ API = (*Service)(nil)
