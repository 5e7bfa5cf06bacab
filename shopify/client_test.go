package shopify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-token", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		shop    string
		token   string
		wantErr error
	}{
		{
			name:  "valid config",
			shop:  "my-shop.myshopify.com",
			token: "test-token",
		},
		{
			name:    "missing shop",
			shop:    "",
			token:   "test-token",
			wantErr: ErrMissingShopDomain,
		},
		{
			name:    "missing token",
			shop:    "my-shop",
			token:   " ",
			wantErr: ErrMissingAccessToken,
		},
		{
			name:    "invalid shop",
			shop:    "https://",
			token:   "test-token",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.shop, tt.token, logger)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://my-shop.myshopify.com", client.ShopURL())
			assert.Equal(t, DefaultAPIVersion, client.APIVersion())
		})
	}
}

func TestNormalizeShopURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"my-shop", "https://my-shop.myshopify.com"},
		{"my-shop.myshopify.com", "https://my-shop.myshopify.com"},
		{"https://my-shop.myshopify.com/admin", "https://my-shop.myshopify.com"},
		{"  My-Shop.myshopify.com/ ", "https://my-shop.myshopify.com"},
		{"http://127.0.0.1:8080", "http://127.0.0.1:8080"},
		{"shop.example.com", "https://shop.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			u, err := NormalizeShopURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, u.String())
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with api version", func(t *testing.T) {
		client, err := NewClient("my-shop", "token", logger, WithAPIVersion("2024-10"))
		require.NoError(t, err)
		assert.Equal(t, "2024-10", client.APIVersion())
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("my-shop", "token", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("my-shop", "token", logger, WithHTTPClient(customClient))
		require.NoError(t, err)
		assert.Same(t, customClient, client.httpClient)
	})

	t.Run("with user agent", func(t *testing.T) {
		client, err := NewClient("my-shop", "token", logger, WithUserAgent("reports/1.0"))
		require.NoError(t, err)
		assert.Equal(t, "reports/1.0", client.userAgent)
	})
}

func TestExecuteHeadersAndURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/api/2024-10/orders/1/refunds.json", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"refund":{"note":"x"}}`, string(body))

		w.Write([]byte(`{"refund":{"note":"x"}}`))
	}, WithAPIVersion("2024-10"))

	var out struct {
		Note string `json:"note"`
	}
	err := client.Post(context.Background(), NewRequest("orders/1/refunds.json"),
		JSONBody(Wrap("refund", map[string]string{"note": "x"})), "refund", &out)
	require.NoError(t, err)
	assert.Equal(t, "x", out.Note)
}

func TestExecuteRootElement(t *testing.T) {
	const fixture = `{"users":[{"id":1,"email":"a@example.com"},{"id":2,"email":"b@example.com"}]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	})

	type item struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}

	t.Run("root element extracted", func(t *testing.T) {
		var users []item
		require.NoError(t, client.Get(context.Background(), NewRequest("users.json"), "users", &users))
		require.Len(t, users, 2)
		assert.Equal(t, "b@example.com", users[1].Email)
	})

	t.Run("missing root element", func(t *testing.T) {
		var u item
		err := client.Get(context.Background(), NewRequest("users.json"), "user", &u)
		require.ErrorIs(t, err, ErrMissingRootElement)
	})

	t.Run("whole body", func(t *testing.T) {
		var env map[string][]item
		require.NoError(t, client.Get(context.Background(), NewRequest("users.json"), "", &env))
		assert.Len(t, env["users"], 2)
	})

	t.Run("nil out", func(t *testing.T) {
		require.NoError(t, client.Get(context.Background(), NewRequest("users.json"), "users", nil))
	})
}

func TestExecuteAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "req-123")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":{"amount":["is invalid"]}}`))
	})

	err := client.Get(context.Background(), NewRequest("orders/1/refunds.json"), "refunds", &[]any{})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, map[string][]string{"amount": {"is invalid"}}, apiErr.Errors)
	assert.Equal(t, "amount: is invalid", apiErr.Message)
	assert.Equal(t, "req-123", apiErr.RequestID)
	assert.Equal(t, `{"errors":{"amount":["is invalid"]}}`, apiErr.Body)
}

func TestExecuteRawGraphQLBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/graphql", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "{ shop { name } }", string(body))
		w.Header().Set("X-Request-Id", "abc")
		w.Write([]byte(`{"data":{"shop":{"name":"x"}}}`))
	})

	resp, err := client.ExecuteRaw(context.Background(), http.MethodPost, NewRequest("graphql.json"), GraphQLBody("{ shop { name } }"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc", resp.RequestID())
	assert.JSONEq(t, `{"data":{"shop":{"name":"x"}}}`, string(resp.Body))
}

func TestRetryMax(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"user":{"id":7}}`))
	}, WithRetryMax(3), WithRetryWait(time.Millisecond, 5*time.Millisecond))

	var u struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, client.Get(context.Background(), NewRequest("users/7.json"), "user", &u))
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetryWrites(t *testing.T) {
	tests := []struct {
		name       string
		firstReply int
		wantCalls  int32
		wantStatus int
	}{
		{
			name:       "server error is not retried",
			firstReply: http.StatusBadGateway,
			wantCalls:  1,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "throttled write is retried",
			firstReply: http.StatusTooManyRequests,
			wantCalls:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				if calls.Add(1) == 1 {
					w.WriteHeader(tt.firstReply)
					return
				}
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"refund":{"id":1}}`))
			}, WithRetryMax(2), WithRetryWait(time.Millisecond, 5*time.Millisecond))

			var out struct {
				ID int64 `json:"id"`
			}
			err := client.Post(context.Background(), NewRequest("orders/1/refunds.json"), JSONBody(Wrap("refund", struct{}{})), "refund", &out)
			assert.Equal(t, tt.wantCalls, calls.Load())

			if tt.wantStatus != 0 {
				apiErr, ok := AsAPIError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), out.ID)
		})
	}
}

func TestNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.Get(context.Background(), NewRequest("users.json"), "users", &[]any{})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}
