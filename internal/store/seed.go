package store

import (
	"fmt"

	"carwash-backend/config"
	"carwash-backend/internal/booking"
)

// SeedsFromConfig converts the configured outlets into upsert seeds,
// rejecting unknown wash types and non-positive prices.
func SeedsFromConfig(outlets []config.OutletConfig) ([]OutletSeed, error) {
	seeds := make([]OutletSeed, 0, len(outlets))
	for _, oc := range outlets {
		if oc.ID == "" {
			return nil, fmt.Errorf("outlet %q has no id", oc.Name)
		}
		prices := make(booking.Tariff, len(oc.Prices))
		for raw, amount := range oc.Prices {
			washType, err := booking.ParseWashType(raw)
			if err != nil {
				return nil, fmt.Errorf("outlet %s: %w", oc.ID, err)
			}
			if amount <= 0 {
				return nil, fmt.Errorf("outlet %s: price for %s must be positive, got %d", oc.ID, washType, amount)
			}
			prices[washType] = amount
		}
		seeds = append(seeds, OutletSeed{ID: oc.ID, Name: oc.Name, Address: oc.Address, Prices: prices})
	}
	return seeds, nil
}
