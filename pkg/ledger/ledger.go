// Package ledger implements the entry manager: validation, lifecycle and
// balance aggregation for financial entries.
package ledger

import (
	"context"
	"fmt"

	"finbook/models"
)

// EntryStore persists entries. FindByID returns (nil, nil) when the entry
// does not exist. FindByExample must honor Filter.Matches semantics.
type EntryStore interface {
	Save(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, entry *models.Entry) error
	FindByID(ctx context.Context, id uint) (*models.Entry, error)
	FindByExample(ctx context.Context, filter Filter) ([]models.Entry, error)
	SumCentsByUserAndType(ctx context.Context, userID uint, t models.EntryType) (int64, error)
}

// Service is the entry manager. It validates before every write and never
// leaves a partial state behind: a failing rule short-circuits before any
// store call.
type Service struct {
	store EntryStore
}

func NewService(store EntryStore) *Service {
	return &Service{store: store}
}

// Create validates the entry, forces its status to PENDING regardless of
// what the caller supplied, and persists it.
func (s *Service) Create(ctx context.Context, entry *models.Entry) error {
	if err := Validate(entry); err != nil {
		return err
	}
	entry.Status = models.StatusPending
	if err := s.store.Save(ctx, entry); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

// Update re-validates and persists an existing entry. Calling it with an
// unsaved entry is a programmer error, not user input, and panics.
func (s *Service) Update(ctx context.Context, entry *models.Entry) error {
	mustHaveID(entry, "update")
	if err := Validate(entry); err != nil {
		return err
	}
	if err := s.store.Save(ctx, entry); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

// Delete removes a persisted entry. Panics when the entry has no ID.
func (s *Service) Delete(ctx context.Context, entry *models.Entry) error {
	mustHaveID(entry, "delete")
	if err := s.store.Delete(ctx, entry); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// UpdateStatus sets the status and delegates to Update, so the full rule
// set runs again before the write.
func (s *Service) UpdateStatus(ctx context.Context, entry *models.Entry, status models.EntryStatus) error {
	entry.Status = status
	return s.Update(ctx, entry)
}

// Search returns entries matching the filter in store order.
func (s *Service) Search(ctx context.Context, filter Filter) ([]models.Entry, error) {
	return s.store.FindByExample(ctx, filter)
}

// FindByID returns the entry or (nil, nil) when absent.
func (s *Service) FindByID(ctx context.Context, id uint) (*models.Entry, error) {
	return s.store.FindByID(ctx, id)
}

// BalanceForUser sums the user's entries across every status: income
// positive, expense negative.
func (s *Service) BalanceForUser(ctx context.Context, userID uint) (int64, error) {
	income, err := s.store.SumCentsByUserAndType(ctx, userID, models.TypeIncome)
	if err != nil {
		return 0, fmt.Errorf("sum income: %w", err)
	}
	expense, err := s.store.SumCentsByUserAndType(ctx, userID, models.TypeExpense)
	if err != nil {
		return 0, fmt.Errorf("sum expense: %w", err)
	}
	return income - expense, nil
}

func mustHaveID(entry *models.Entry, op string) {
	if entry == nil || entry.ID == 0 {
		panic("ledger: " + op + " requires a persisted entry with an id")
	}
}
