package models

import (
	"fmt"
	"strings"
	"time"
)

// EntryType tells whether an entry adds to or subtracts from the balance.
type EntryType string

// EntryStatus is the lifecycle state of an entry. New entries always start
// as PENDING regardless of what the caller supplied.
type EntryStatus string

const (
	TypeIncome  EntryType = "INCOME"
	TypeExpense EntryType = "EXPENSE"

	StatusPending   EntryStatus = "PENDING"
	StatusConfirmed EntryStatus = "CONFIRMED"
	StatusCancelled EntryStatus = "CANCELLED"
)

// Entry is a single dated financial record belonging to one user.
// Amounts are stored in the smallest currency unit (cents) to avoid
// floating-point drift. CreatedAt doubles as the registration date and is
// never rewritten after insert.
type Entry struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time   `json:"registered_at"`
	UpdatedAt   time.Time   `json:"-"`
	Description string      `gorm:"size:255;not null" json:"description"`
	Month       int         `gorm:"not null" json:"month"`
	Year        int         `gorm:"not null" json:"year"`
	AmountCents int64       `gorm:"not null" json:"amount_cents"`
	Type        EntryType   `gorm:"size:16;not null" json:"type"`
	Status      EntryStatus `gorm:"size:16;not null" json:"status"`
	UserID      uint        `gorm:"index;not null" json:"user_id"`
}

// ParseEntryType converts a wire value like "income" into an EntryType.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	}
	return "", fmt.Errorf("unknown entry type %q", s)
}

// ParseEntryStatus converts a wire value like "confirmed" into an EntryStatus.
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch EntryStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("unknown entry status %q", s)
}
