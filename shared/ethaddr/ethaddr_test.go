package ethaddr_test

import (
	"parkade/shared/ethaddr"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "checksummed address",
			input:    "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B",
			expected: "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
		},
		{
			name:     "already lowercase",
			input:    "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
			expected: "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
		},
		{
			name:     "surrounding whitespace",
			input:    "  0xAB5801A7D398351B8BE11C439E05C5B3259AEC9B ",
			expected: "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ethaddr.Normalize(tt.input))
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{
			name:     "same wallet different casing",
			a:        "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B",
			b:        "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
			expected: true,
		},
		{
			name:     "different wallets",
			a:        "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B",
			b:        "0x0000000000000000000000000000000000000001",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ethaddr.Equal(tt.a, tt.b))
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "valid address",
			input:    "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B",
			expected: true,
		},
		{
			name:     "missing prefix",
			input:    "Ab5801a7D398351b8bE11C439e05C5B3259aeC9B",
			expected: true,
		},
		{
			name:     "too short",
			input:    "0xab5801",
			expected: false,
		},
		{
			name:     "not hex",
			input:    "0xzz5801a7d398351b8be11c439e05c5b3259aec9b",
			expected: false,
		},
		{
			name:     "empty",
			input:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ethaddr.IsValid(tt.input))
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	addr := common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", ethaddr.NormalizeAddress(addr))
}

func TestIsZero(t *testing.T) {
	assert.True(t, ethaddr.IsZero(common.Address{}))
	assert.False(t, ethaddr.IsZero(common.HexToAddress("0x0000000000000000000000000000000000000001")))
}
