// Package shopify provides the transport shared by the Shopify Admin API services.
//
// A Client is bound to one shop and one Admin API version. It builds versioned
// request URLs, authenticates with the shop's access token, encodes query parameters
// from filter structs and unwraps the named root element Shopify nests every REST
// response under.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := shopify.NewClient(
//		"my-shop.myshopify.com",
//		"shpat_...",
//		logger,
//		shopify.WithAPIVersion("2025-01"),
//		shopify.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	var users []user.User
//	err = client.Get(ctx, shopify.NewRequest("users.json"), "users", &users)
//
// The resource services (refund, user, payments, graph) wrap a Client and are the
// intended entry points.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, carrying the status code, a map of
// error category to messages, a summary message, the raw body and Shopify's request id:
//
//	if apiErr, ok := shopify.AsAPIError(err); ok && apiErr.IsNotFound() {
//		// Handle missing resource
//	}
package shopify
