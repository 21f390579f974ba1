package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFilter(t *testing.T) {
	input := map[string]any{
		"mint":      "So11111111111111111111111111111111111111112",
		"signature": "abc",
		"decimals":  6,
	}

	results, err := applyFilter(input, ".mint")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "So11111111111111111111111111111111111111112", results[0])
}

func TestApplyFilter_Select(t *testing.T) {
	input := []map[string]any{
		{"kind": "create_mint", "signature": "a"},
		{"kind": "mint_to", "signature": "b"},
		{"kind": "mint_to", "signature": "c"},
	}

	results, err := applyFilter(input, `.[] | select(.kind == "mint_to") | .signature`)
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "c"}, results)
}

func TestApplyFilter_ParseError(t *testing.T) {
	_, err := applyFilter(map[string]any{}, ".[invalid")
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse jq filter")
}

func TestApplyFilter_StructInput(t *testing.T) {
	type out struct {
		Mint     string `json:"mint"`
		Decimals uint8  `json:"decimals"`
	}

	results, err := applyFilter(out{Mint: "abc", Decimals: 9}, ".decimals")
	require.NoError(t, err)
	require.Len(t, results, 1)
	// JSON round trip turns numbers into float64.
	assert.Equal(t, float64(9), results[0])
}
