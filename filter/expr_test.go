package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payout struct {
	ID       int64           `json:"id"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Date     time.Time       `json:"date"`
	Tags     []string        `json:"tags,omitempty"`
}

func testPayouts() []payout {
	now := time.Now()
	return []payout{
		{ID: 1, Status: "paid", Amount: decimal.RequireFromString("41.90"), Currency: "USD", Date: now.AddDate(0, 0, -40), Tags: []string{"Weekly"}},
		{ID: 2, Status: "scheduled", Amount: decimal.RequireFromString("12.00"), Currency: "USD", Date: now.AddDate(0, 0, -2)},
		{ID: 3, Status: "paid", Amount: decimal.RequireFromString("5.10"), Currency: "CAD", Date: now.AddDate(0, 0, -3)},
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `status == "paid"`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `contains(status, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `status == "paid" and num(amount) > 10 and daysSince(date) < 30`,
		},
	}

	c := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestMatch(t *testing.T) {
	payouts := testPayouts()

	tests := []struct {
		name       string
		expression string
		want       []int64
	}{
		{"field equality", `status == "paid"`, []int64{1, 3}},
		{"money as number", `num(amount) > 10`, []int64{1, 2}},
		{"date helper", `daysSince(date) < 30`, []int64{2, 3}},
		{"date comparison", `asTime(date) < daysAgo(30)`, []int64{1}},
		{"list contains", `contains(tags, "weekly")`, []int64{1}},
		{"string contains", `contains(currency, "us")`, []int64{1, 2}},
		{"record prefix", `record.currency == "CAD"`, []int64{3}},
		{"lower", `lower(status) == "scheduled"`, []int64{2}},
		{"combined", `status == "paid" and currency == "USD"`, []int64{1}},
	}

	c := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expression)
			require.NoError(t, err)

			matched, err := Apply(f, payouts)
			require.NoError(t, err)

			var ids []int64
			for _, p := range matched {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMatchEvaluationError(t *testing.T) {
	f, err := NewCompiler().Compile(`amount > 10`)
	require.NoError(t, err)

	_, err = f.Match(testPayouts()[0])
	require.Error(t, err)

	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "amount > 10", evalErr.Expression)
	assert.Equal(t, "1", evalErr.Record)
}

func TestApplyNilMatcher(t *testing.T) {
	payouts := testPayouts()
	out, err := Apply[payout](nil, payouts)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestPresets(t *testing.T) {
	c := NewCompiler(WithPresets(map[string]string{
		"large": "num(amount) >= 40",
	}))

	f, err := c.Compile("@large")
	require.NoError(t, err)
	assert.Equal(t, "num(amount) >= 40", f.Expression())

	matched, err := Apply(f, testPayouts())
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, int64(1), matched[0].ID)

	_, err = c.Compile("@missing")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestCustomFunctions(t *testing.T) {
	c := NewCompiler(WithFunctions(map[string]any{
		"isUSD": func(v any) bool { return v == "USD" },
	}))

	f, err := c.Compile(`isUSD(currency)`)
	require.NoError(t, err)

	matched, err := Apply(f, testPayouts())
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestCompilerCache(t *testing.T) {
	c := NewCompiler(WithCache(2))

	f1, err := c.Compile(`status == "paid"`)
	require.NoError(t, err)
	f2, err := c.Compile(`status == "paid"`)
	require.NoError(t, err)
	assert.Same(t, f1, f2)
	assert.Equal(t, 1, c.Size())

	_, err = c.Compile(`status == "scheduled"`)
	require.NoError(t, err)
	_, err = c.Compile(`status == "failed"`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	// the first expression was evicted
	f3, err := c.Compile(`status == "paid"`)
	require.NoError(t, err)
	assert.NotSame(t, f1, f3)

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 41.9, num("41.90"))
	assert.Equal(t, 3.0, num(3))
	assert.Equal(t, 0.0, num("abc"))
	assert.Equal(t, 0.0, num(nil))

	assert.Equal(t, -1, daysSince(nil))
	assert.Equal(t, -1, daysSince("not a date"))
	assert.GreaterOrEqual(t, daysSince("2020-01-01"), 365)

	assert.True(t, contains([]any{"Orders", "customers"}, "orders"))
	assert.False(t, contains([]any{"orders"}, "products"))
	assert.False(t, contains(42, "4"))
}
