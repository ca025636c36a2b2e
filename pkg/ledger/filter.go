package ledger

import (
	"strings"

	"finbook/models"
)

// Filter selects entries by example. Zero-valued fields impose no
// constraint; Description matches as a case-insensitive substring, the
// other fields match exactly.
type Filter struct {
	Description string
	Month       int
	Year        int
	UserID      uint
}

// Matches is the contract every EntryStore implementation of FindByExample
// must honor. The in-memory fakes use it directly; the SQL store builds the
// equivalent predicate per populated field.
func (f Filter) Matches(e models.Entry) bool {
	if f.Description != "" &&
		!strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Description)) {
		return false
	}
	if f.Month != 0 && e.Month != f.Month {
		return false
	}
	if f.Year != 0 && e.Year != f.Year {
		return false
	}
	if f.UserID != 0 && e.UserID != f.UserID {
		return false
	}
	return true
}
