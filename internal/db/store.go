package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/kcal/internal/item"
)

// Store adapts the query functions to the tracker's persistence contract.
type Store struct {
	db           *sql.DB
	defaultLimit int
}

// NewStore returns a Store backed by db. defaultLimit is reported until a
// limit has been saved.
func NewStore(db *sql.DB, defaultLimit int) *Store {
	return &Store{db: db, defaultLimit: defaultLimit}
}

// CalorieLimit returns the saved daily limit, or the default limit.
func (s *Store) CalorieLimit(ctx context.Context) (int, error) {
	return GetSetting(ctx, s.db, KeyCalorieLimit, s.defaultLimit)
}

// SetCalorieLimit saves the daily limit.
func (s *Store) SetCalorieLimit(ctx context.Context, limit int) error {
	return PutSetting(ctx, s.db, KeyCalorieLimit, limit)
}

// TotalCalories returns the saved running total, 0 if never saved.
func (s *Store) TotalCalories(ctx context.Context) (int, error) {
	return GetSetting(ctx, s.db, KeyTotalCalories, 0)
}

// Items returns the saved items of kind in insertion order.
func (s *Store) Items(ctx context.Context, kind item.Kind) ([]item.Item, error) {
	return ListItems(ctx, s.db, kind)
}

// SaveItem inserts it and saves total atomically.
func (s *Store) SaveItem(ctx context.Context, it item.Item, total int) error {
	return SaveItemWithTotal(ctx, s.db, it, total)
}

// RemoveItem deletes an item and saves total atomically. A missing row is
// not an error.
func (s *Store) RemoveItem(ctx context.Context, kind item.Kind, id string, total int) error {
	_, err := RemoveItemWithTotal(ctx, s.db, kind, id, total)
	return err
}

// ClearItems deletes every item and zeroes the total. The limit is kept.
func (s *Store) ClearItems(ctx context.Context) error {
	return ClearDay(ctx, s.db)
}
