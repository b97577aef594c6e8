package service

import (
	"math/big"
	"parkade/shared/failure"
)

// Add-on surcharges, each a flat percentage markup on the base cost.
var addOnSurcharges = map[string]int64{
	"covered":     10,
	"ev_charging": 25,
	"valet":       50,
}

// Quote prices a rental: base price per rental period times the number of
// periods, plus the selected add-on surcharges. Pure integer arithmetic on
// wei amounts; fractions of a wei truncate toward zero.
func Quote(base *big.Int, durationUnits int64, addOns []string) (*big.Int, error) {
	if base == nil || base.Sign() <= 0 {
		return nil, failure.BadRequestFromString("base price must be a positive amount") //nolint:wrapcheck
	}

	if durationUnits <= 0 {
		return nil, failure.BadRequestFromString("duration must be at least one rental period") //nolint:wrapcheck
	}

	cost := new(big.Int).Mul(base, big.NewInt(durationUnits))
	total := new(big.Int).Set(cost)

	for _, addOn := range addOns {
		percent, ok := addOnSurcharges[addOn]
		if !ok {
			return nil, failure.BadRequestFromString("unknown add-on: " + addOn) //nolint:wrapcheck
		}

		surcharge := new(big.Int).Mul(cost, big.NewInt(percent))
		surcharge.Quo(surcharge, big.NewInt(100))

		total.Add(total, surcharge)
	}

	return total, nil
}
