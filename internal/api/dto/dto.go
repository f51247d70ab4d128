// Package dto holds the JSON shapes exchanged between the API and its clients.
package dto

import (
	"time"

	"carwash-backend/internal/booking"
	"carwash-backend/internal/status"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type Outlet struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Address string           `json:"address"`
	Prices  map[string]int64 `json:"prices"`
}

// Tariff converts the wire prices into a booking price table, skipping tiers
// this build does not know.
func (o Outlet) Tariff() booking.Tariff {
	t := make(booking.Tariff, len(o.Prices))
	for raw, amount := range o.Prices {
		if w, err := booking.ParseWashType(raw); err == nil {
			t[w] = amount
		}
	}
	return t
}

type Vehicle struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	PlateNumber string    `json:"plateNumber"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateVehicleRequest struct {
	OwnerID     string `json:"ownerId" binding:"required"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	PlateNumber string `json:"plateNumber" binding:"required"`
	Color       string `json:"color"`
}

type CreateWashRequest struct {
	VehicleID  string `json:"vehicleId" binding:"required"`
	OutletID   string `json:"outletId" binding:"required"`
	WashType   string `json:"washType" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Price      int64  `json:"price" binding:"required,gt=0"`
	PaymentRef string `json:"paymentRef"`
}

type WashRequest struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	VehicleID   string          `json:"vehicleId"`
	OutletID    string          `json:"outletId"`
	WashType    string          `json:"washType"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	ScheduledAt time.Time       `json:"scheduledAt"`
	Price       int64           `json:"price"`
	PaymentRef  string          `json:"paymentRef,omitempty"`
	Status      status.Status   `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Timeline    status.Timeline `json:"timeline"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
