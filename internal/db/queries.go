package db

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/hpungsan/kcal/internal/errors"
	"github.com/hpungsan/kcal/internal/item"
)

// Setting keys.
const (
	KeyCalorieLimit  = "calorie_limit"
	KeyTotalCalories = "total_calories"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// GetSetting returns the integer stored under key, or def if it was never set.
func GetSetting(ctx context.Context, db *sql.DB, key string, def int) (int, error) {
	var value int
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return value, nil
}

// PutSetting stores value under key, replacing any previous value.
func PutSetting(ctx context.Context, db execer, key string, value int) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := db.ExecContext(ctx, query, key, value); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// InsertItem appends an item. Insertion order is preserved by seq.
func InsertItem(ctx context.Context, db execer, it item.Item) error {
	query := `
		INSERT INTO items (id, kind, name, calories, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := db.ExecContext(ctx, query, it.ID, string(it.Kind), it.Name, it.Calories, it.CreatedAt); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListItems returns all items of kind in insertion order.
func ListItems(ctx context.Context, db *sql.DB, kind item.Kind) ([]item.Item, error) {
	query := `
		SELECT id, kind, name, calories, created_at
		FROM items
		WHERE kind = ?
		ORDER BY seq ASC
	`
	rows, err := db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	items := []item.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

// DeleteItem removes an item by kind and id. Returns whether a row was deleted.
func DeleteItem(ctx context.Context, db execer, kind item.Kind, id string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsAffected > 0, nil
}

// ClearDay deletes every item and zeroes the stored total in one transaction.
// The calorie limit is left untouched.
func ClearDay(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return errors.NewInternal(err)
	}
	if err := PutSetting(ctx, tx, KeyTotalCalories, 0); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// SaveItemWithTotal inserts it and stores total in one transaction. When the
// insert fails the previous total is kept.
func SaveItemWithTotal(ctx context.Context, db *sql.DB, it item.Item, total int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := InsertItem(ctx, tx, it); err != nil {
		return err
	}
	if err := PutSetting(ctx, tx, KeyTotalCalories, total); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// RemoveItemWithTotal deletes an item by kind and id and stores total in one
// transaction. Returns whether a row was deleted.
func RemoveItemWithTotal(ctx context.Context, db *sql.DB, kind item.Kind, id string, total int) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	deleted, err := DeleteItem(ctx, tx, kind, id)
	if err != nil {
		return false, err
	}
	if err := PutSetting(ctx, tx, KeyTotalCalories, total); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, errors.NewInternal(err)
	}
	return deleted, nil
}

// scanItem scans a single row into an Item.
func scanItem(rows *sql.Rows) (item.Item, error) {
	var (
		it   item.Item
		kind string
	)
	if err := rows.Scan(&it.ID, &kind, &it.Name, &it.Calories, &it.CreatedAt); err != nil {
		return item.Item{}, err
	}
	it.Kind = item.Kind(kind)
	return it, nil
}
