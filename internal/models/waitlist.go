package models

import "gorm.io/gorm"

// WaitlistEntry is written only by the database registrar.
type WaitlistEntry struct {
	gorm.Model
	Name  string `gorm:"not null"`
	Email string `gorm:"not null;uniqueIndex"`
}
