package store

import (
	"errors"
	"time"

	"carwash-backend/internal/booking"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPriceMismatch     = errors.New("price does not match outlet tariff")
)

// OutletSeed describes an outlet and its tariff, as loaded from configuration.
type OutletSeed struct {
	ID      string
	Name    string
	Address string
	Prices  booking.Tariff
}

// NewWashRequest carries a submitted booking into the store.
type NewWashRequest struct {
	VehicleID   string
	OutletID    string
	WashType    booking.WashType
	Date        time.Time
	TimeLabel   string
	ScheduledAt time.Time
	Price       int64
	PaymentRef  string
}
