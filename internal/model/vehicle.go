package model

import "time"

// Vehicle is a car registered by an owner.
type Vehicle struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string    `gorm:"index;size:64;not null" json:"ownerId"`
	Make        string    `gorm:"size:64" json:"make"`
	Model       string    `gorm:"size:64" json:"model"`
	PlateNumber string    `gorm:"uniqueIndex;size:32;not null" json:"plateNumber"`
	Color       string    `gorm:"size:32" json:"color"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
