// Package payments provides access to Shopify Payments balances, payouts, disputes
// and balance transactions.
//
// Shops that do not use Shopify Payments answer 404 on every endpoint; check
// IsEnabled first when that is not known in advance:
//
//	svc := payments.NewService(client)
//	enabled, err := svc.IsEnabled(ctx)
//	if err != nil || !enabled {
//		return err
//	}
//	payouts, err := svc.ListPayouts(ctx, &payments.PayoutFilter{Status: payments.PayoutPaid})
package payments
