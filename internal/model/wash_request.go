package model

import (
	"time"
)

// WashRequest is the persisted record created when a booking is submitted (hot table).
type WashRequest struct {
	ID            string    `gorm:"primaryKey;size:36"`
	OwnerID       string    `gorm:"index;size:64;not null"`
	VehicleID     string    `gorm:"index;size:36;not null"`
	OutletID      string    `gorm:"index;size:64;not null"`
	WashType      string    `gorm:"size:32;not null"`
	ScheduledDate time.Time `gorm:"not null"`
	TimeLabel     string    `gorm:"size:32;not null"`
	ScheduledAt   time.Time `gorm:"not null;index"`
	Price         int64     `gorm:"not null"`
	PaymentRef    string    `gorm:"size:128"`
	Status        string    `gorm:"size:20;not null;index"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`

	// Associations
	Events []WashStatusEvent `gorm:"foreignKey:WashRequestID;constraint:OnDelete:CASCADE"`
}

// WashStatusEvent is the historical log of status transitions (cold table).
type WashStatusEvent struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	WashRequestID string    `gorm:"index;size:36;not null"`
	Status        string    `gorm:"size:20;not null"`
	ObservedAt    time.Time `gorm:"not null;index"` // Time the status was entered
}
