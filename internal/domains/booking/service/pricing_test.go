package service

import (
	"math/big"
	"net/http"
	"parkade/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name          string
		base          string
		durationUnits int64
		addOns        []string
		want          string
	}{
		{
			name:          "single period no add-ons",
			base:          "1000000000000000",
			durationUnits: 1,
			want:          "1000000000000000",
		},
		{
			name:          "multiple periods",
			base:          "1000000000000000",
			durationUnits: 3,
			want:          "3000000000000000",
		},
		{
			name:          "covered add-on adds ten percent",
			base:          "1000",
			durationUnits: 2,
			addOns:        []string{"covered"},
			want:          "2200",
		},
		{
			name:          "all add-ons stack on the base cost",
			base:          "1000",
			durationUnits: 1,
			addOns:        []string{"covered", "ev_charging", "valet"},
			want:          "1850",
		},
		{
			name:          "surcharge fraction truncates toward zero",
			base:          "15",
			durationUnits: 1,
			addOns:        []string{"covered"},
			want:          "16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, ok := new(big.Int).SetString(tt.base, 10)
			require.True(t, ok)

			total, err := Quote(base, tt.durationUnits, tt.addOns)

			require.NoError(t, err)
			assert.Equal(t, tt.want, total.String())
		})
	}
}

func TestQuote_Rejections(t *testing.T) {
	tests := []struct {
		name          string
		base          *big.Int
		durationUnits int64
		addOns        []string
	}{
		{
			name:          "nil base price",
			base:          nil,
			durationUnits: 1,
		},
		{
			name:          "zero base price",
			base:          big.NewInt(0),
			durationUnits: 1,
		},
		{
			name:          "negative base price",
			base:          big.NewInt(-100),
			durationUnits: 1,
		},
		{
			name:          "zero duration",
			base:          big.NewInt(1000),
			durationUnits: 0,
		},
		{
			name:          "negative duration",
			base:          big.NewInt(1000),
			durationUnits: -2,
		},
		{
			name:          "unknown add-on",
			base:          big.NewInt(1000),
			durationUnits: 1,
			addOns:        []string{"heated_seats"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := Quote(tt.base, tt.durationUnits, tt.addOns)

			require.Error(t, err)
			assert.Nil(t, total)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}
