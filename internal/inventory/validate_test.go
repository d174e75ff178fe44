package inventory

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeReq(t *testing.T, raw string) createReq {
	t.Helper()

	var req createReq
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return req
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()

	p, err := v.Product(decodeReq(t, `{"name": "  Widget ", "price": 9.99}`))
	require.NoError(t, err)

	assert.Equal(t, "Widget", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Zero(t, p.Quantity)
	assert.Empty(t, p.Description)
	assert.Empty(t, p.ID)

	p, err = v.Product(decodeReq(t, `{"name": "Bolt", "description": "M6", "price": "0", "quantity": 12}`))
	require.NoError(t, err)
	assert.Equal(t, "M6", p.Description)
	assert.EqualValues(t, 12, p.Quantity)
	assert.True(t, p.Price.IsZero())
}

func TestValidator_Invalid(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"empty object", `{}`, []string{"name", "price"}},
		{"explicit nulls", `{"name": null, "price": null}`, []string{"name", "price"}},
		{"blank name", `{"name": "   ", "price": 1}`, []string{"name"}},
		{"long name", `{"name": "` + strings.Repeat("x", 201) + `", "price": 1}`, []string{"name"}},
		{"long description", `{"name": "a", "description": "` + strings.Repeat("x", 2001) + `", "price": 1}`, []string{"description"}},
		{"negative price", `{"name": "a", "price": -0.01}`, []string{"price"}},
		{"three decimals", `{"name": "a", "price": 9.999}`, []string{"price"}},
		{"trailing zero precision", `{"name": "a", "price": "9.990"}`, []string{"price"}},
		{"price not a number", `{"name": "a", "price": "abc"}`, []string{"price"}},
		{"price empty string", `{"name": "a", "price": ""}`, []string{"price"}},
		{"price bool", `{"name": "a", "price": true}`, []string{"price"}},
		{"price object", `{"name": "a", "price": {"amount": 1}}`, []string{"price"}},
		{"price too large", `{"name": "a", "price": 1000000000.01}`, []string{"price"}},
		{"negative quantity", `{"name": "a", "price": 1, "quantity": -1}`, []string{"quantity"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Product(decodeReq(t, tc.body))
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)

			got := make([]string, 0, len(verr.Fields))
			for f, msgs := range verr.Fields {
				assert.NotEmpty(t, msgs, f)
				got = append(got, f)
			}
			assert.ElementsMatch(t, tc.fields, got)
		})
	}
}

func TestValidator_RequiredMessage(t *testing.T) {
	_, err := NewValidator().Product(decodeReq(t, `{}`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"This field is required."}, verr.Fields["name"])
	assert.Equal(t, []string{"This field is required."}, verr.Fields["price"])
	assert.Equal(t, "invalid fields: name, price", verr.Error())
}

func TestNewValidator_RegistersMoney(t *testing.T) {
	var v *Validator
	require.NotPanics(t, func() { v = NewValidator() })

	_, err := v.Product(decodeReq(t, `{"name": "a", "price": 1}`))
	require.NoError(t, err)
}

func TestPrice_JSON(t *testing.T) {
	raw, err := json.Marshal(Product{ID: "p_1", Name: "Widget", Price: Price{Decimal: decimal.RequireFromString("9.99")}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":9.99`)

	var back Product
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Price.Equal(decimal.RequireFromString("9.99")))

	// Other decimal users keep the library default of quoted strings.
	assert.False(t, decimal.MarshalJSONWithoutQuotes)
	plain, err := json.Marshal(decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	assert.Equal(t, `"9.99"`, string(plain))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"9.99", nil},
		{"10", nil},
		{"1000000000", nil},
		{"9.990", errPricePrecision},
		{"-1", errPriceNegative},
		{"abc", errPriceFormat},
		{"1000000000.01", errPriceTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			_, err := parsePrice(tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
