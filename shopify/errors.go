package shopify

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid shopify configuration")
	// ErrMissingShopDomain indicates the shop domain was not provided
	ErrMissingShopDomain = errors.New("shopify shop domain is required")
	// ErrMissingAccessToken indicates the access token was not provided
	ErrMissingAccessToken = errors.New("shopify access token is required")
	// ErrMissingRootElement indicates the response envelope lacked the expected key
	ErrMissingRootElement = errors.New("response is missing root element")
)

// DefaultErrorCategory is the category used when Shopify reports errors without a field name.
const DefaultErrorCategory = "Error"

// APIError represents an error reported by the Shopify Admin API, either through a
// non-2xx status or through an "errors" field on a successful GraphQL response.
type APIError struct {
	StatusCode int
	// Message is a one-line summary, usually the first reported error.
	Message string
	// Errors maps an error category (a field name, or DefaultErrorCategory) to its messages.
	Errors map[string][]string
	// Body is the raw response body.
	Body      string
	RequestID string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("shopify API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited checks if the shop's API call limit was exceeded
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Messages returns every reported message, in category order.
func (e *APIError) Messages() []string {
	var out []string
	for _, category := range sortedCategories(e.Errors) {
		out = append(out, e.Errors[category]...)
	}
	return out
}

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ParseErrorBody builds an APIError from a failed REST response. Shopify reports errors as
//
//	{"errors": "Not Found"}
//	{"errors": ["a", "b"]}
//	{"errors": {"field": ["is invalid"]}}
//	{"error": "invalid_request", "error_description": "..."}
//
// all of which are folded into a category -> messages map.
func ParseErrorBody(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       string(body),
		Errors:     make(map[string][]string),
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if raw, ok := envelope["errors"]; ok {
			collectErrors(apiErr.Errors, DefaultErrorCategory, raw, false)
		} else if raw, ok := envelope["error"]; ok {
			var code, description string
			_ = json.Unmarshal(raw, &code)
			if descRaw, ok := envelope["error_description"]; ok {
				_ = json.Unmarshal(descRaw, &description)
			}
			switch {
			case code != "" && description != "":
				apiErr.Errors[code] = []string{description}
			case code != "":
				apiErr.Errors[DefaultErrorCategory] = []string{code}
			}
		}
	}

	if len(apiErr.Errors) == 0 {
		text := http.StatusText(statusCode)
		if text == "" {
			text = fmt.Sprintf("unexpected status %d", statusCode)
		}
		apiErr.Errors[DefaultErrorCategory] = []string{text}
	}

	apiErr.Message = summarize(apiErr.Errors)
	return apiErr
}

func collectErrors(dst map[string][]string, category string, raw json.RawMessage, listItem bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s != "" {
			dst[category] = append(dst[category], s)
		}
		return
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			collectErrors(dst, category, item, true)
		}
		return
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		// {"message": "..."} entries, unless message sits beside field errors
		if msg, ok := obj["message"]; ok && (listItem || len(obj) == 1) {
			collectErrors(dst, category, msg, false)
			return
		}
		for key, value := range obj {
			if category != DefaultErrorCategory {
				key = category + "." + key
			}
			collectErrors(dst, key, value, false)
		}
		return
	}

	if text := strings.TrimSpace(string(raw)); text != "" && text != "null" {
		dst[category] = append(dst[category], text)
	}
}

func summarize(errs map[string][]string) string {
	for _, category := range sortedCategories(errs) {
		msgs := errs[category]
		if len(msgs) == 0 {
			continue
		}
		if category == DefaultErrorCategory {
			return msgs[0]
		}
		return category + ": " + msgs[0]
	}
	return ""
}

// sortedCategories puts DefaultErrorCategory first, then the rest alphabetically.
func sortedCategories(errs map[string][]string) []string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == DefaultErrorCategory || keys[j] == DefaultErrorCategory {
			return keys[i] == DefaultErrorCategory && keys[j] != DefaultErrorCategory
		}
		return keys[i] < keys[j]
	})
	return keys
}
