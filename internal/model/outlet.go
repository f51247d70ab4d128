package model

import "time"

// Outlet represents a physical car-wash location.
type Outlet struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Address   string    `gorm:"size:256" json:"address"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`

	// Associations
	Prices []OutletPrice `gorm:"foreignKey:OutletID;constraint:OnDelete:CASCADE" json:"prices"`
}

// OutletPrice is the tariff of one wash type at one outlet.
type OutletPrice struct {
	OutletID string `gorm:"primaryKey;size:64" json:"-"`
	WashType string `gorm:"primaryKey;size:32" json:"washType"`
	Amount   int64  `gorm:"not null" json:"amount"`
}
