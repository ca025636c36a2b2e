package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"finbook/models"
	"finbook/pkg/ledger"
)

// EntryStore persists financial entries.
type EntryStore struct {
	db *gorm.DB
}

func NewEntryStore(db *gorm.DB) *EntryStore {
	return &EntryStore{db: db}
}

func (s *EntryStore) Save(ctx context.Context, entry *models.Entry) error {
	return s.db.WithContext(ctx).Save(entry).Error
}

func (s *EntryStore) Delete(ctx context.Context, entry *models.Entry) error {
	res := s.db.WithContext(ctx).Delete(entry)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("entry %d not found", entry.ID)
	}
	return nil
}

func (s *EntryStore) FindByID(ctx context.Context, id uint) (*models.Entry, error) {
	var entry models.Entry
	err := s.db.WithContext(ctx).First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find entry by id: %w", err)
	}
	return &entry, nil
}

// FindByExample builds the query predicate per populated filter field:
// description as a case-insensitive substring, everything else exact.
func (s *EntryStore) FindByExample(ctx context.Context, filter ledger.Filter) ([]models.Entry, error) {
	q := s.db.WithContext(ctx).Model(&models.Entry{})
	if filter.Description != "" {
		q = q.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(filter.Description)+"%")
	}
	if filter.Month != 0 {
		q = q.Where("month = ?", filter.Month)
	}
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	var entries []models.Entry
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("find entries: %w", err)
	}
	return entries, nil
}

// SumCentsByUserAndType totals a user's entries of one type across every
// status.
func (s *EntryStore) SumCentsByUserAndType(ctx context.Context, userID uint, t models.EntryType) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Entry{}).
		Where("user_id = ? AND type = ?", userID, t).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum entries: %w", err)
	}
	return total, nil
}
