package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/shopadmin/payments"
)

var (
	paymentsLimit     int
	paymentsStatus    string
	payoutsSince      string
	payoutsUntil      string
	disputesInitiated string
	txPayoutID        int64
	txPayoutStatus    string
	txTest            bool
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Shopify Payments balance, payouts, disputes and transactions",
}

var paymentsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether Shopify Payments is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := paymentsService.IsEnabled(cmd.Context())
		if err != nil {
			return err
		}
		return writeOutput(cmd, map[string]bool{"enabled": enabled}, func() string {
			if enabled {
				return "✓ Shopify Payments is enabled\n"
			}
			return "✗ Shopify Payments is not enabled on this shop\n"
		})
	},
}

var paymentsBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		balance, err := paymentsService.GetBalance(cmd.Context())
		if err != nil {
			return err
		}
		return writeOutput(cmd, balance, func() string { return formatter.FormatBalance(balance) })
	},
}

var paymentsPayoutsCmd = &cobra.Command{
	Use:   "payouts [id]",
	Short: "List payouts, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPayouts,
}

var paymentsDisputesCmd = &cobra.Command{
	Use:   "disputes [id]",
	Short: "List disputes, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDisputes,
}

var paymentsTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List balance transactions",
	Args:  cobra.NoArgs,
	RunE:  runTransactions,
}

var paymentsOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show balance, recent payouts and open disputes",
	Args:  cobra.NoArgs,
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(paymentsCmd)
	paymentsCmd.AddCommand(paymentsStatusCmd, paymentsBalanceCmd, paymentsPayoutsCmd,
		paymentsDisputesCmd, paymentsTransactionsCmd, paymentsOverviewCmd)

	for _, c := range []*cobra.Command{paymentsPayoutsCmd, paymentsDisputesCmd, paymentsTransactionsCmd} {
		c.Flags().IntVar(&paymentsLimit, "limit", 0, "maximum number of records (1-250)")
	}

	paymentsPayoutsCmd.Flags().StringVar(&paymentsStatus, "status", "", "scheduled, in_transit, paid, failed or canceled")
	paymentsPayoutsCmd.Flags().StringVar(&payoutsSince, "since", "", "payouts on or after this date (YYYY-MM-DD)")
	paymentsPayoutsCmd.Flags().StringVar(&payoutsUntil, "until", "", "payouts on or before this date (YYYY-MM-DD)")

	paymentsDisputesCmd.Flags().StringVar(&paymentsStatus, "status", "", "needs_response, under_review, charge_refunded, accepted, won or lost")
	paymentsDisputesCmd.Flags().StringVar(&disputesInitiated, "initiated", "", "disputes initiated on this date (YYYY-MM-DD)")

	paymentsTransactionsCmd.Flags().Int64Var(&txPayoutID, "payout", 0, "only transactions of this payout")
	paymentsTransactionsCmd.Flags().StringVar(&txPayoutStatus, "payout-status", "", "only transactions with this payout status")
	paymentsTransactionsCmd.Flags().BoolVar(&txTest, "test", false, "only test transactions (--test=false for live only)")
}

func runPayouts(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		payout, err := paymentsService.GetPayout(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, payout, func() string {
			return formatter.FormatPayouts([]payments.Payout{*payout})
		})
	}

	f := &payments.PayoutFilter{
		Status: payments.PayoutStatus(paymentsStatus),
		Limit:  paymentsLimit,
	}
	var err error
	if f.DateMin, err = parseDateFlag("since", payoutsSince); err != nil {
		return err
	}
	if f.DateMax, err = parseDateFlag("until", payoutsUntil); err != nil {
		return err
	}

	payouts, err := paymentsService.ListPayouts(cmd.Context(), f)
	if err != nil {
		return err
	}
	return printList(cmd, payouts, formatter.FormatPayouts)
}

func runDisputes(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		dispute, err := paymentsService.GetDispute(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, dispute, func() string {
			return formatter.FormatDisputes([]payments.Dispute{*dispute})
		})
	}

	f := &payments.DisputeFilter{
		Status: payments.DisputeStatus(paymentsStatus),
		Limit:  paymentsLimit,
	}
	var err error
	if f.InitiatedAt, err = parseDateFlag("initiated", disputesInitiated); err != nil {
		return err
	}

	disputes, err := paymentsService.ListDisputes(cmd.Context(), f)
	if err != nil {
		return err
	}
	return printList(cmd, disputes, formatter.FormatDisputes)
}

func runTransactions(cmd *cobra.Command, args []string) error {
	f := &payments.TransactionFilter{
		PayoutID:     txPayoutID,
		PayoutStatus: payments.PayoutStatus(txPayoutStatus),
		Limit:        paymentsLimit,
	}
	if cmd.Flags().Changed("test") {
		f.Test = &txTest
	}

	txs, err := paymentsService.ListTransactions(cmd.Context(), f)
	if err != nil {
		return err
	}
	return printList(cmd, txs, formatter.FormatTransactions)
}

// Overview is the combined result of the overview command
type Overview struct {
	Balance      []payments.Balance `json:"balance"`
	Payouts      []payments.Payout  `json:"recent_payouts"`
	OpenDisputes []payments.Dispute `json:"open_disputes"`
}

const overviewPayouts = 5

func runOverview(cmd *cobra.Command, args []string) error {
	enabled, err := paymentsService.IsEnabled(cmd.Context())
	if err != nil {
		return err
	}
	if !enabled {
		return fmt.Errorf("shopify payments is not enabled on this shop")
	}

	ov, err := fetchOverview(cmd)
	if err != nil {
		return err
	}

	return writeOutput(cmd, ov, func() string {
		var sb strings.Builder
		sb.WriteString(formatter.FormatBalance(ov.Balance))
		sb.WriteString(formatter.FormatPayouts(ov.Payouts))
		sb.WriteString(formatter.FormatDisputes(ov.OpenDisputes))
		return sb.String()
	})
}

// fetchOverview issues the balance, payout and dispute requests concurrently
func fetchOverview(cmd *cobra.Command) (*Overview, error) {
	var ov Overview
	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		balance, err := paymentsService.GetBalance(ctx)
		ov.Balance = balance
		return err
	})
	g.Go(func() error {
		payouts, err := paymentsService.ListPayouts(ctx, &payments.PayoutFilter{Limit: overviewPayouts})
		ov.Payouts = payouts
		return err
	})
	g.Go(func() error {
		disputes, err := paymentsService.ListDisputes(ctx, &payments.DisputeFilter{Status: payments.DisputeNeedsResponse})
		ov.OpenDisputes = disputes
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}

func parseDateFlag(name, value string) (*payments.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := payments.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}
