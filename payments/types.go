package payments

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Date is a calendar date as Shopify Payments sends it ("2024-03-01")
type Date struct {
	time.Time
}

// NewDate returns the date for the given year, month and day in UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler. The zero date encodes as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a plain date or a full RFC 3339 timestamp
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// EncodeValues encodes the date as YYYY-MM-DD in query strings
func (d Date) EncodeValues(key string, v *url.Values) error {
	if d.IsZero() {
		return nil
	}
	v.Set(key, d.String())
	return nil
}

// PayoutStatus is the lifecycle state of a payout
type PayoutStatus string

const (
	PayoutScheduled PayoutStatus = "scheduled"
	PayoutInTransit PayoutStatus = "in_transit"
	PayoutPaid      PayoutStatus = "paid"
	PayoutFailed    PayoutStatus = "failed"
	PayoutCanceled  PayoutStatus = "canceled"
)

// DisputeStatus is the state of a dispute
type DisputeStatus string

const (
	DisputeNeedsResponse  DisputeStatus = "needs_response"
	DisputeUnderReview    DisputeStatus = "under_review"
	DisputeChargeRefunded DisputeStatus = "charge_refunded"
	DisputeAccepted       DisputeStatus = "accepted"
	DisputeWon            DisputeStatus = "won"
	DisputeLost           DisputeStatus = "lost"
)

// Open reports whether the dispute still awaits an outcome
func (s DisputeStatus) Open() bool {
	return s == DisputeNeedsResponse || s == DisputeUnderReview
}

// Balance is the account balance in one currency
type Balance struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// Payout is a transfer of funds to the merchant's bank account
type Payout struct {
	ID       int64           `json:"id"`
	Status   PayoutStatus    `json:"status"`
	Date     Date            `json:"date"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Summary  *PayoutSummary  `json:"summary,omitempty"`
}

// PayoutSummary breaks a payout down by transaction type
type PayoutSummary struct {
	AdjustmentsFeeAmount      decimal.Decimal `json:"adjustments_fee_amount"`
	AdjustmentsGrossAmount    decimal.Decimal `json:"adjustments_gross_amount"`
	ChargesFeeAmount          decimal.Decimal `json:"charges_fee_amount"`
	ChargesGrossAmount        decimal.Decimal `json:"charges_gross_amount"`
	RefundsFeeAmount          decimal.Decimal `json:"refunds_fee_amount"`
	RefundsGrossAmount        decimal.Decimal `json:"refunds_gross_amount"`
	ReservedFundsFeeAmount    decimal.Decimal `json:"reserved_funds_fee_amount"`
	ReservedFundsGrossAmount  decimal.Decimal `json:"reserved_funds_gross_amount"`
	RetriedPayoutsFeeAmount   decimal.Decimal `json:"retried_payouts_fee_amount"`
	RetriedPayoutsGrossAmount decimal.Decimal `json:"retried_payouts_gross_amount"`
}

// Dispute is a chargeback or inquiry raised by a card holder
type Dispute struct {
	ID                int64           `json:"id"`
	OrderID           int64           `json:"order_id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Reason            string          `json:"reason"`
	NetworkReasonCode string          `json:"network_reason_code"`
	Status            DisputeStatus   `json:"status"`
	EvidenceDueBy     *time.Time      `json:"evidence_due_by"`
	EvidenceSentOn    *time.Time      `json:"evidence_sent_on"`
	FinalizedOn       *time.Time      `json:"finalized_on"`
	InitiatedAt       *time.Time      `json:"initiated_at"`
}

// Transaction is a balance transaction: a charge, refund, dispute or adjustment
type Transaction struct {
	ID                       int64           `json:"id"`
	Type                     string          `json:"type"`
	Test                     bool            `json:"test"`
	PayoutID                 int64           `json:"payout_id"`
	PayoutStatus             PayoutStatus    `json:"payout_status"`
	Currency                 string          `json:"currency"`
	Amount                   decimal.Decimal `json:"amount"`
	Fee                      decimal.Decimal `json:"fee"`
	Net                      decimal.Decimal `json:"net"`
	SourceID                 int64           `json:"source_id"`
	SourceType               string          `json:"source_type"`
	SourceOrderID            int64           `json:"source_order_id"`
	SourceOrderTransactionID int64           `json:"source_order_transaction_id"`
	ProcessedAt              *time.Time      `json:"processed_at"`
}

// PayoutFilter narrows ListPayouts. Zero fields are not sent.
type PayoutFilter struct {
	SinceID int64        `url:"since_id,omitempty"`
	LastID  int64        `url:"last_id,omitempty"`
	DateMin *Date        `url:"date_min,omitempty"`
	DateMax *Date        `url:"date_max,omitempty"`
	Date    *Date        `url:"date,omitempty"`
	Status  PayoutStatus `url:"status,omitempty"`
	Limit   int          `url:"limit,omitempty"`
}

// DisputeFilter narrows ListDisputes. Zero fields are not sent.
type DisputeFilter struct {
	SinceID     int64         `url:"since_id,omitempty"`
	LastID      int64         `url:"last_id,omitempty"`
	Status      DisputeStatus `url:"status,omitempty"`
	InitiatedAt *Date         `url:"initiated_at,omitempty"`
	Limit       int           `url:"limit,omitempty"`
}

// TransactionFilter narrows ListTransactions. Zero fields are not sent.
type TransactionFilter struct {
	SinceID      int64        `url:"since_id,omitempty"`
	LastID       int64        `url:"last_id,omitempty"`
	Test         *bool        `url:"test,omitempty"`
	PayoutID     int64        `url:"payout_id,omitempty"`
	PayoutStatus PayoutStatus `url:"payout_status,omitempty"`
	Limit        int          `url:"limit,omitempty"`
}
