package refund

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the kind of an order transaction
type TransactionKind string

const (
	// KindSuggestedRefund marks transactions produced by the calculate endpoint
	KindSuggestedRefund TransactionKind = "suggested_refund"
	// KindRefund is the kind the create endpoint accepts
	KindRefund TransactionKind = "refund"
)

// RestockType describes what happens to refunded line items
type RestockType string

const (
	RestockNoRestock RestockType = "no_restock"
	RestockCancel    RestockType = "cancel"
	RestockReturn    RestockType = "return"
	RestockLegacy    RestockType = "legacy_restock"
)

// Refund represents a refund of an order
type Refund struct {
	ID               int64             `json:"id,omitempty"`
	OrderID          int64             `json:"order_id,omitempty"`
	CreatedAt        *time.Time        `json:"created_at,omitempty"`
	ProcessedAt      *time.Time        `json:"processed_at,omitempty"`
	Note             string            `json:"note,omitempty"`
	UserID           int64             `json:"user_id,omitempty"`
	Restock          *bool             `json:"restock,omitempty"`
	Notify           *bool             `json:"notify,omitempty"`
	Currency         string            `json:"currency,omitempty"`
	Shipping         *Shipping         `json:"shipping,omitempty"`
	RefundLineItems  []LineItem        `json:"refund_line_items,omitempty"`
	Transactions     []Transaction     `json:"transactions,omitempty"`
	OrderAdjustments []OrderAdjustment `json:"order_adjustments,omitempty"`
}

// LineItem is a line item being refunded
type LineItem struct {
	ID          int64            `json:"id,omitempty"`
	LineItemID  int64            `json:"line_item_id,omitempty"`
	Quantity    int              `json:"quantity,omitempty"`
	RestockType RestockType      `json:"restock_type,omitempty"`
	LocationID  int64            `json:"location_id,omitempty"`
	Subtotal    *decimal.Decimal `json:"subtotal,omitempty"`
	TotalTax    *decimal.Decimal `json:"total_tax,omitempty"`
}

// Transaction is a money movement attached to a refund
type Transaction struct {
	ID                int64            `json:"id,omitempty"`
	OrderID           int64            `json:"order_id,omitempty"`
	ParentID          int64            `json:"parent_id,omitempty"`
	Kind              TransactionKind  `json:"kind,omitempty"`
	Gateway           string           `json:"gateway,omitempty"`
	Status            string           `json:"status,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Currency          string           `json:"currency,omitempty"`
	MaximumRefundable *decimal.Decimal `json:"maximum_refundable,omitempty"`
	CreatedAt         *time.Time       `json:"created_at,omitempty"`
}

// Shipping describes the shipping portion of a refund
type Shipping struct {
	FullRefund        *bool            `json:"full_refund,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Tax               *decimal.Decimal `json:"tax,omitempty"`
	MaximumRefundable *decimal.Decimal `json:"maximum_refundable,omitempty"`
}

// OrderAdjustment records discrepancies between refund and order totals
type OrderAdjustment struct {
	ID        int64            `json:"id,omitempty"`
	OrderID   int64            `json:"order_id,omitempty"`
	RefundID  int64            `json:"refund_id,omitempty"`
	Kind      string           `json:"kind,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	TaxAmount *decimal.Decimal `json:"tax_amount,omitempty"`
}

// ListOptions narrows a refund listing. These are the only parameters the order
// refunds endpoint accepts; the endpoint is keyed by order alone.
type ListOptions struct {
	Limit          int    `url:"limit,omitempty"`
	Fields         string `url:"fields,omitempty"`
	InShopCurrency bool   `url:"in_shop_currency,omitempty"`
}

// ToRefundTransactions returns a copy of a calculated refund whose suggested_refund
// transactions are switched to refund, ready to be passed to Create.
func (r *Refund) ToRefundTransactions() *Refund {
	out := *r
	out.Transactions = make([]Transaction, len(r.Transactions))
	for i, tx := range r.Transactions {
		if tx.Kind == KindSuggestedRefund {
			tx.Kind = KindRefund
		}
		out.Transactions[i] = tx
	}
	return &out
}

// Total sums the refund's transactions.
func (r *Refund) Total() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range r.Transactions {
		if tx.Amount != nil {
			total = total.Add(*tx.Amount)
		}
	}
	return total
}
