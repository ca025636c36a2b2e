package models

import "time"

// User is an account holder. Email is the login identifier and must be
// unique; the unique index backs the registration precheck so a concurrent
// duplicate insert still fails at the store.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Entries      []Entry   `json:"-"`
}
