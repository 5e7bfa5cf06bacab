package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"

	"github.com/s0up4200/shopadmin/shopify"
)

const endpoint = "graphql.json"

// Request is the conventional JSON body of a GraphQL call
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Service sends GraphQL Admin API calls
type Service struct {
	client *shopify.Client
	logger zerolog.Logger
}

// NewService creates a GraphQL service on top of a shop client
func NewService(client *shopify.Client) *Service {
	return &Service{
		client: client,
		logger: client.Logger().With().Str("component", "graph").Logger(),
	}
}

// Post sends a raw GraphQL document with the application/graphql content type
// and returns the response's data member.
func (s *Service) Post(ctx context.Context, query string) (json.RawMessage, error) {
	return s.send(ctx, shopify.GraphQLBody(query))
}

// PostJSON serializes body to JSON, usually a Request, and returns the response's
// data member.
func (s *Service) PostJSON(ctx context.Context, body any) (json.RawMessage, error) {
	return s.send(ctx, shopify.JSONBody(body))
}

// Query runs req and decodes the data member into out
func (s *Service) Query(ctx context.Context, req Request, out any) error {
	data, err := s.PostJSON(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || data == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse graphql data: %w", err)
	}
	return nil
}

func (s *Service) send(ctx context.Context, body *shopify.Body) (json.RawMessage, error) {
	resp, err := s.client.ExecuteRaw(ctx, http.MethodPost, shopify.NewRequest(endpoint), body)
	if err != nil {
		return nil, err
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphql response: %w", err)
	}

	if apiErr := errorsFrom(v, resp.Body); apiErr != nil {
		apiErr.RequestID = resp.RequestID()
		return nil, apiErr
	}

	s.logCost(v)

	data := v.Get("data")
	if data == nil || data.Type() == fastjson.TypeNull {
		return nil, nil
	}
	return json.RawMessage(data.MarshalTo(nil)), nil
}

func (s *Service) logCost(v *fastjson.Value) {
	cost := v.Get("extensions", "cost")
	if cost == nil {
		return
	}
	s.logger.Debug().
		Int("requested", cost.GetInt("requestedQueryCost")).
		Int("actual", cost.GetInt("actualQueryCost")).
		Float64("available", cost.GetFloat64("throttleStatus", "currentlyAvailable")).
		Msg("GraphQL query cost")
}

// CheckErrors inspects a GraphQL response body that arrived with status 200 and
// returns an *shopify.APIError when it carries a non-empty errors array.
func CheckErrors(body []byte) error {
	v, err := fastjson.ParseBytes(body)
	if err != nil {
		return fmt.Errorf("failed to parse graphql response: %w", err)
	}
	if apiErr := errorsFrom(v, body); apiErr != nil {
		return apiErr
	}
	return nil
}

// errorsFrom collects every error message under the default category. The first
// message becomes the summary. Any errors value other than null or an empty array
// fails the call.
func errorsFrom(v *fastjson.Value, body []byte) *shopify.APIError {
	errs := v.Get("errors")
	if errs == nil || errs.Type() == fastjson.TypeNull {
		return nil
	}

	var messages []string
	if errs.Type() == fastjson.TypeArray {
		for _, e := range errs.GetArray() {
			messages = append(messages, errorMessage(e))
		}
		if len(messages) == 0 {
			return nil
		}
	} else {
		messages = []string{errorMessage(errs)}
	}

	return &shopify.APIError{
		StatusCode: http.StatusOK,
		Message:    messages[0],
		Errors:     map[string][]string{shopify.DefaultErrorCategory: messages},
		Body:       string(body),
	}
}

func errorMessage(e *fastjson.Value) string {
	if msg := e.GetStringBytes("message"); msg != nil {
		return string(msg)
	}
	if e.Type() == fastjson.TypeString {
		return string(e.GetStringBytes())
	}
	return e.String()
}
