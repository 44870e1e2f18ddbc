package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]Cents{
		"89.90":  8990,
		"89,90":  8990,
		"10":     1000,
		"0.005":  1,
		" 1.2 ":  120,
		"1234.5": 123450,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Fuera de rango de int64 centavos: no debe dar la vuelta.
	for _, in := range []string{"99999999999999999999", "92233720368547758.08", "-92233720368547758.08"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
	got, err := Parse("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Cents(math.MaxInt64), got)
}

func TestCents_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Price Cents `json:"price"`
	}{Price: 8990})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"89.90"}`, string(b))

	var in struct {
		A Cents `json:"a"`
		B Cents `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"15.5","b":3}`), &in))
	assert.Equal(t, Cents(1550), in.A)
	assert.Equal(t, Cents(300), in.B)
}

func TestFromFloat(t *testing.T) {
	c, err := FromFloat(49.99)
	require.NoError(t, err)
	assert.Equal(t, Cents(4999), c)
	assert.Equal(t, "49.99", c.String())

	for _, f := range []float64{1e30, -1e30, math.Inf(1), math.NaN()} {
		_, err := FromFloat(f)
		assert.ErrorIs(t, err, ErrInvalidAmount, f)
	}
}

func TestCents_JSONRejectsOverflow(t *testing.T) {
	var in struct {
		Amount Cents `json:"amount"`
	}
	err := json.Unmarshal([]byte(`{"amount":"99999999999999999999"}`), &in)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
