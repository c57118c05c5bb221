package models

import "time"

// StoredValue is one string entry of a guest's key-value store.
// The (GuestID, Key) pair is unique, so each guest has at most one cart entry.
type StoredValue struct {
	GuestID   string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
