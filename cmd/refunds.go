package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/shopadmin/refund"
	"github.com/s0up4200/shopadmin/shopify"
)

// refundFetchLimit bounds concurrent refund lookups
const refundFetchLimit = 5

var (
	refundOrderID      int64
	refundIDs          []string
	refundFields       string
	refundLimit        int
	refundShopCurrency bool
	refundFile         string
	fromCalculation    bool
)

var refundsCmd = &cobra.Command{
	Use:   "refunds",
	Short: "List, calculate and create order refunds",
}

var refundsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the refunds of an order",
	RunE:  runRefundsList,
}

var refundsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show one or more refunds of an order",
	Long: `Show refunds of an order by ID. Several IDs may be given, either by repeating
--refund or as a comma separated list; they are fetched concurrently.`,
	RunE: runRefundsGet,
}

var refundsCalculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate the transactions of a refund without creating it",
	Long: `Calculate reads a refund (line items, shipping) as JSON from --file, or stdin
when --file is "-", and prints the transactions Shopify suggests.`,
	RunE: runRefundsCalculate,
}

var refundsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a refund",
	Long: `Create reads a refund as JSON from --file, or stdin when --file is "-".
With --from-calculation the refund is first passed through the calculate endpoint
and the suggested transactions are submitted.`,
	RunE: runRefundsCreate,
}

func init() {
	rootCmd.AddCommand(refundsCmd)
	refundsCmd.AddCommand(refundsListCmd, refundsGetCmd, refundsCalculateCmd, refundsCreateCmd)

	refundsCmd.PersistentFlags().Int64Var(&refundOrderID, "order", 0, "order ID")
	_ = refundsCmd.MarkPersistentFlagRequired("order")

	refundsListCmd.Flags().IntVar(&refundLimit, "limit", 0, "maximum number of refunds (1-250)")
	refundsListCmd.Flags().StringVar(&refundFields, "fields", "", "comma separated fields to return")
	refundsListCmd.Flags().BoolVar(&refundShopCurrency, "in-shop-currency", false, "show amounts in the shop currency")

	refundsGetCmd.Flags().StringSliceVar(&refundIDs, "refund", nil, "refund ID (repeatable)")
	refundsGetCmd.Flags().StringVar(&refundFields, "fields", "", "comma separated fields to return")
	_ = refundsGetCmd.MarkFlagRequired("refund")

	for _, c := range []*cobra.Command{refundsCalculateCmd, refundsCreateCmd} {
		c.Flags().StringVarP(&refundFile, "file", "f", "-", "refund JSON file, - for stdin")
	}
	refundsCreateCmd.Flags().BoolVar(&fromCalculation, "from-calculation", false, "calculate first and submit the suggested transactions")
}

func runRefundsList(cmd *cobra.Command, args []string) error {
	opts := &refund.ListOptions{
		Limit:          refundLimit,
		Fields:         refundFields,
		InShopCurrency: refundShopCurrency,
	}

	refunds, err := refundService.ListForOrder(cmd.Context(), refundOrderID, opts)
	if err != nil {
		return err
	}

	logger.Debug().Int64("order_id", refundOrderID).Int("count", len(refunds)).Msg("Fetched refunds")
	return printList(cmd, refunds, formatter.FormatRefunds)
}

func runRefundsGet(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(refundIDs)
	if err != nil {
		return err
	}

	refunds, err := fetchRefunds(cmd, refundOrderID, ids)
	if err != nil {
		return err
	}
	return printList(cmd, refunds, formatter.FormatRefunds)
}

// fetchRefunds retrieves refunds concurrently, keeping the order of ids
func fetchRefunds(cmd *cobra.Command, orderID int64, ids []int64) ([]refund.Refund, error) {
	refunds := make([]refund.Refund, len(ids))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(refundFetchLimit)

	for i, id := range ids {
		g.Go(func() error {
			r, err := refundService.Get(ctx, orderID, id, refundFields)
			if err != nil {
				return err
			}
			refunds[i] = *r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refunds, nil
}

func runRefundsCalculate(cmd *cobra.Command, args []string) error {
	input, err := readRefund(cmd, refundFile)
	if err != nil {
		return err
	}

	calc, err := refundService.Calculate(cmd.Context(), refundOrderID, input)
	if err != nil {
		return err
	}
	return writeOutput(cmd, calc, func() string {
		return formatter.FormatRefunds([]refund.Refund{*calc})
	})
}

func runRefundsCreate(cmd *cobra.Command, args []string) error {
	input, err := readRefund(cmd, refundFile)
	if err != nil {
		return err
	}

	if fromCalculation {
		calc, err := refundService.Calculate(cmd.Context(), refundOrderID, input)
		if err != nil {
			return err
		}
		// keep what the caller asked for, submit what Shopify calculated
		input.Transactions = calc.ToRefundTransactions().Transactions
		logger.Info().
			Int64("order_id", refundOrderID).
			Str("total", calc.Total().StringFixed(2)).
			Msg("Using calculated refund transactions")
	}

	created, err := refundService.Create(cmd.Context(), refundOrderID, input)
	if err != nil {
		return err
	}

	logger.Info().Int64("order_id", refundOrderID).Int64("refund_id", created.ID).Msg("Refund created")
	return writeOutput(cmd, created, func() string {
		return formatter.FormatRefunds([]refund.Refund{*created})
	})
}

// readRefund decodes a refund from a file, or stdin for "-". Both the bare refund
// and the {"refund": {...}} envelope are accepted.
func readRefund(cmd *cobra.Command, path string) (*refund.Refund, error) {
	var data []byte
	var err error
	if path == "-" || path == "" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read refund: %w", err)
	}

	var r refund.Refund
	err = shopify.Unwrap(data, "refund", &r)
	if errors.Is(err, shopify.ErrMissingRootElement) {
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse refund JSON: %w", err)
	}
	return &r, nil
}
