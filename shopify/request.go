package shopify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
)

// Content types understood by the Admin API.
const (
	ContentTypeJSON    = "application/json"
	ContentTypeGraphQL = "application/graphql"
)

// Request is a relative Admin API path plus its query parameters.
type Request struct {
	Path  string
	Query url.Values
}

// NewRequest creates a request for a path relative to the versioned admin root,
// e.g. "orders/450789469/refunds.json".
func NewRequest(path string) *Request {
	return &Request{
		Path:  strings.TrimLeft(path, "/"),
		Query: url.Values{},
	}
}

// Set sets a single query parameter, replacing existing values.
func (r *Request) Set(key, value string) *Request {
	r.Query.Set(key, value)
	return r
}

// SetInt64 sets an integer query parameter.
func (r *Request) SetInt64(key string, value int64) *Request {
	return r.Set(key, strconv.FormatInt(value, 10))
}

// AddParams encodes a filter struct using its `url` tags and appends the result.
// A nil filter adds nothing, and fields tagged omitempty are skipped when empty.
func (r *Request) AddParams(filter any) error {
	if filter == nil {
		return nil
	}
	values, err := query.Values(filter)
	if err != nil {
		return fmt.Errorf("failed to encode query parameters: %w", err)
	}
	for key, vals := range values {
		for _, v := range vals {
			r.Query.Add(key, v)
		}
	}
	return nil
}

// URL resolves the request against a versioned admin root.
func (r *Request) URL(adminRoot string) string {
	u := strings.TrimRight(adminRoot, "/") + "/" + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Body is a request payload together with its content type.
type Body struct {
	ContentType string
	value       any
	raw         []byte
}

// JSONBody serializes v to JSON when the request is sent.
func JSONBody(v any) *Body {
	return &Body{ContentType: ContentTypeJSON, value: v}
}

// RawJSONBody sends already encoded JSON as-is.
func RawJSONBody(b []byte) *Body {
	return &Body{ContentType: ContentTypeJSON, raw: b}
}

// GraphQLBody sends a raw GraphQL document with the application/graphql content type.
func GraphQLBody(query string) *Body {
	return &Body{ContentType: ContentTypeGraphQL, raw: []byte(query)}
}

// Wrap nests v under a root element, the envelope shape every REST write expects.
func Wrap(root string, v any) map[string]any {
	return map[string]any{root: v}
}

func (b *Body) reader() (io.Reader, error) {
	if b.raw != nil {
		return bytes.NewReader(b.raw), nil
	}
	data, err := json.Marshal(b.value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}
