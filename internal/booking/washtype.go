package booking

import (
	"errors"
	"fmt"
)

// WashType is the service tier of a booking. The zero value means unset.
type WashType string

const (
	WashTypeQuickWash WashType = "QuickWash"
	WashTypeBasic     WashType = "Basic"
	WashTypePremium   WashType = "Premium"
)

// WashTypes lists every tier in ascending order of service.
var WashTypes = []WashType{WashTypeQuickWash, WashTypeBasic, WashTypePremium}

var (
	ErrUnknownWashType = errors.New("unknown wash type")
	ErrNoTariff        = errors.New("no tariff for wash type")
	ErrIncompleteDraft = errors.New("please complete all fields")
)

// Valid reports whether t is one of the known tiers.
func (t WashType) Valid() bool {
	switch t {
	case WashTypeQuickWash, WashTypeBasic, WashTypePremium:
		return true
	}
	return false
}

// ParseWashType converts a raw tag into a WashType, rejecting anything unknown.
func ParseWashType(s string) (WashType, error) {
	t := WashType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownWashType, s)
	}
	return t, nil
}

// PriceTable resolves the price of a tier at one outlet.
type PriceTable interface {
	PriceFor(t WashType) (int64, bool)
}

// Tariff is a map-backed PriceTable.
type Tariff map[WashType]int64

// PriceFor returns the amount for t, if the outlet offers it.
func (t Tariff) PriceFor(w WashType) (int64, bool) {
	amount, ok := t[w]
	return amount, ok
}
