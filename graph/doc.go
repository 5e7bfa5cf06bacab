// Package graph sends queries and mutations to the Shopify GraphQL Admin API.
//
// GraphQL reports most failures with status 200 and an "errors" array. Such
// responses are returned as *shopify.APIError with StatusCode 200, every message
// under the "Error" category and the first message as the summary, so callers
// handle REST and GraphQL failures the same way:
//
//	var out struct {
//		Shop struct {
//			Name string `json:"name"`
//		} `json:"shop"`
//	}
//	err := graph.NewService(client).Query(ctx, graph.Request{Query: "{ shop { name } }"}, &out)
//	if apiErr, ok := shopify.AsAPIError(err); ok {
//		fmt.Println(apiErr.Messages())
//	}
package graph
