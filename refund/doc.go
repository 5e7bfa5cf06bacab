// Package refund wraps the Shopify order refund endpoints.
//
// Refunds are created in two steps. Calculate returns the transactions Shopify
// suggests for the requested line items and shipping, and Create submits them:
//
//	svc := refund.NewService(client)
//	calc, err := svc.Calculate(ctx, orderID, &refund.Refund{
//		Shipping:        &refund.Shipping{FullRefund: &yes},
//		RefundLineItems: []refund.LineItem{{LineItemID: 518995019, Quantity: 1}},
//	})
//	if err != nil {
//		return err
//	}
//	created, err := svc.Create(ctx, orderID, calc.ToRefundTransactions())
//
// Money values are decimal.Decimal so amounts survive the round trip exactly.
package refund
