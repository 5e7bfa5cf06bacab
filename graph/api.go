package graph

import (
	"context"
	"encoding/json"
)

// API defines the GraphQL operations
type API interface {
	Post(ctx context.Context, query string) (json.RawMessage, error)
	PostJSON(ctx context.Context, body any) (json.RawMessage, error)
	Query(ctx context.Context, req Request, out any) error
}

var _ API = (*Service)(nil)
