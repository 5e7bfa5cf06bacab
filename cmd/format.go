package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/s0up4200/shopadmin/payments"
	"github.com/s0up4200/shopadmin/refund"
	"github.com/s0up4200/shopadmin/user"
)

const dateFormat = "2006-01-02"

// treeItem is one entry of a tree listing: a title line and indented details
type treeItem struct {
	title   string
	details []string
}

// ConsoleFormatter renders API records for the terminal
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

func (f *ConsoleFormatter) tree(noun string, items []treeItem) string {
	if len(items) == 0 {
		return fmt.Sprintf("No %ss found\n", noun)
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\n" + strings.ToUpper(noun[:1]) + noun[1:])
	if len(items) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(items))

	for i, item := range items {
		isLast := i == len(items)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		fmt.Fprintf(&sb, "%s── %s\n", prefix, item.title)
		for _, line := range item.details {
			if line != "" {
				fmt.Fprintf(&sb, "%s%s\n", indent, line)
			}
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatRefunds formats refunds with their transactions and line items
func (f *ConsoleFormatter) FormatRefunds(refunds []refund.Refund) string {
	items := make([]treeItem, 0, len(refunds))
	for _, r := range refunds {
		title := fmt.Sprintf("Refund %d", r.ID)
		if r.ID == 0 {
			title = "Calculated refund"
		}
		item := treeItem{title: title}

		var parts []string
		if r.OrderID != 0 {
			parts = append(parts, fmt.Sprintf("Order: %d", r.OrderID))
		}
		if d := formatTime(r.CreatedAt); d != "" {
			parts = append(parts, "Created: "+d)
		}
		item.details = append(item.details, strings.Join(parts, " | "))

		if r.Note != "" {
			item.details = append(item.details, "Note: "+r.Note)
		}
		for _, tx := range r.Transactions {
			item.details = append(item.details, fmt.Sprintf("%s %s %s via %s%s",
				tx.Kind, formatAmount(tx.Amount), tx.Currency, tx.Gateway, suffix(tx.Status)))
		}
		for _, li := range r.RefundLineItems {
			item.details = append(item.details, fmt.Sprintf("Line item %d x%d (%s)", li.LineItemID, li.Quantity, li.RestockType))
		}
		if len(r.Transactions) > 0 {
			item.details = append(item.details, "Total: "+r.Total().StringFixed(2))
		}
		items = append(items, item)
	}
	return f.tree("refund", items)
}

// FormatUsers formats staff users
func (f *ConsoleFormatter) FormatUsers(users []user.User) string {
	items := make([]treeItem, 0, len(users))
	for _, u := range users {
		title := fmt.Sprintf("%s <%s>", u.FullName(), u.Email)
		if u.AccountOwner {
			title += " [OWNER]"
		}
		item := treeItem{title: title}
		item.details = append(item.details, fmt.Sprintf("ID: %d | Type: %s", u.ID, u.UserType))
		if len(u.Permissions) > 0 {
			item.details = append(item.details, "Permissions: "+strings.Join(u.Permissions, ", "))
		}
		if u.TFAEnabled {
			item.details = append(item.details, "Two-factor authentication enabled")
		}
		items = append(items, item)
	}
	return f.tree("user", items)
}

// FormatBalance formats the Shopify Payments balance
func (f *ConsoleFormatter) FormatBalance(balance []payments.Balance) string {
	if len(balance) == 0 {
		return "Balance is empty\n"
	}
	var sb strings.Builder
	sb.WriteString("\nBalance:\n")
	for _, b := range balance {
		fmt.Fprintf(&sb, "  %s %s\n", b.Amount.StringFixed(2), b.Currency)
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatPayouts formats payouts
func (f *ConsoleFormatter) FormatPayouts(payouts []payments.Payout) string {
	items := make([]treeItem, 0, len(payouts))
	for _, p := range payouts {
		item := treeItem{title: fmt.Sprintf("Payout %d (%s)", p.ID, p.Status)}
		amount := fmt.Sprintf("%s %s", p.Amount.StringFixed(2), p.Currency)
		if !p.Date.IsZero() {
			amount += " on " + p.Date.String()
		}
		item.details = append(item.details, amount)
		if s := p.Summary; s != nil {
			item.details = append(item.details,
				fmt.Sprintf("Charges: %s (fees %s)", s.ChargesGrossAmount.StringFixed(2), s.ChargesFeeAmount.StringFixed(2)),
				fmt.Sprintf("Refunds: %s (fees %s)", s.RefundsGrossAmount.StringFixed(2), s.RefundsFeeAmount.StringFixed(2)),
			)
		}
		items = append(items, item)
	}
	return f.tree("payout", items)
}

// FormatDisputes formats disputes, flagging those that still need a response
func (f *ConsoleFormatter) FormatDisputes(disputes []payments.Dispute) string {
	items := make([]treeItem, 0, len(disputes))
	for _, d := range disputes {
		title := fmt.Sprintf("Dispute %d (%s, %s)", d.ID, d.Type, d.Status)
		if d.Status == payments.DisputeNeedsResponse {
			title += " [ACTION REQUIRED]"
		}
		item := treeItem{title: title}
		item.details = append(item.details, fmt.Sprintf("%s %s | Reason: %s", d.Amount.StringFixed(2), d.Currency, d.Reason))
		if d.OrderID != 0 {
			item.details = append(item.details, fmt.Sprintf("Order: %d", d.OrderID))
		}

		var dates []string
		if v := formatTime(d.InitiatedAt); v != "" {
			dates = append(dates, "Initiated: "+v)
		}
		if v := formatTime(d.EvidenceDueBy); v != "" && d.Status.Open() {
			dates = append(dates, "Evidence due: "+v)
		}
		if v := formatTime(d.FinalizedOn); v != "" {
			dates = append(dates, "Finalized: "+v)
		}
		item.details = append(item.details, strings.Join(dates, " | "))
		items = append(items, item)
	}
	return f.tree("dispute", items)
}

// FormatTransactions formats balance transactions
func (f *ConsoleFormatter) FormatTransactions(txs []payments.Transaction) string {
	items := make([]treeItem, 0, len(txs))
	for _, tx := range txs {
		title := fmt.Sprintf("%s %d", tx.Type, tx.ID)
		if tx.Test {
			title += " [TEST]"
		}
		item := treeItem{title: title}
		item.details = append(item.details, fmt.Sprintf("Amount: %s | Fee: %s | Net: %s %s",
			tx.Amount.StringFixed(2), tx.Fee.StringFixed(2), tx.Net.StringFixed(2), tx.Currency))
		if tx.PayoutID != 0 {
			item.details = append(item.details, fmt.Sprintf("Payout: %d (%s)", tx.PayoutID, tx.PayoutStatus))
		}
		if tx.SourceOrderID != 0 {
			item.details = append(item.details, fmt.Sprintf("Order: %d", tx.SourceOrderID))
		}
		items = append(items, item)
	}
	return f.tree("transaction", items)
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}

func formatAmount(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}

func suffix(status string) string {
	if status == "" {
		return ""
	}
	return " (" + status + ")"
}
