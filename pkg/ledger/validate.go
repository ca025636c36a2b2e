package ledger

import (
	"strings"

	"finbook/models"
)

// ValidationError is a recoverable business-rule failure carrying the
// message shown to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Rule messages, one per check. The check order below is fixed so the
// first failing rule determines which message a caller sees.
const (
	MsgInvalidDescription = "enter a valid description"
	MsgInvalidMonth       = "enter a valid month"
	MsgInvalidYear        = "enter a valid year"
	MsgMissingUser        = "enter a user for the entry"
	MsgInvalidAmount      = "enter a valid amount"
	MsgMissingType        = "enter an entry type"
)

// Validate runs the full rule set against an entry without touching the
// store: description, month, year, owner, amount, type — in that order.
func Validate(entry *models.Entry) error {
	if strings.TrimSpace(entry.Description) == "" {
		return &ValidationError{Message: MsgInvalidDescription}
	}
	if entry.Month < 1 || entry.Month > 12 {
		return &ValidationError{Message: MsgInvalidMonth}
	}
	if entry.Year < 1000 || entry.Year > 9999 {
		return &ValidationError{Message: MsgInvalidYear}
	}
	if entry.UserID == 0 {
		return &ValidationError{Message: MsgMissingUser}
	}
	if entry.AmountCents <= 0 {
		return &ValidationError{Message: MsgInvalidAmount}
	}
	if entry.Type == "" {
		return &ValidationError{Message: MsgMissingType}
	}
	return nil
}
