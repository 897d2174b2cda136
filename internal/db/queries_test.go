package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/kcal/internal/item"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func mustItem(t *testing.T, kind item.Kind, name string, calories int) item.Item {
	t.Helper()
	it, err := item.New(kind, name, calories)
	require.NoError(t, err)
	return it
}

func TestSettings_DefaultAndPut(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	v, err := GetSetting(ctx, database, KeyCalorieLimit, 2000)
	require.NoError(t, err)
	require.Equal(t, 2000, v)

	require.NoError(t, PutSetting(ctx, database, KeyCalorieLimit, 1800))
	require.NoError(t, PutSetting(ctx, database, KeyCalorieLimit, 1700))

	v, err = GetSetting(ctx, database, KeyCalorieLimit, 2000)
	require.NoError(t, err)
	require.Equal(t, 1700, v)
}

func TestItems_InsertListOrder(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	breakfast := mustItem(t, item.KindMeal, "Breakfast", 350)
	run := mustItem(t, item.KindWorkout, "Run", 300)
	lunch := mustItem(t, item.KindMeal, "Lunch", 600)

	for _, it := range []item.Item{breakfast, run, lunch} {
		require.NoError(t, InsertItem(ctx, database, it))
	}

	meals, err := ListItems(ctx, database, item.KindMeal)
	require.NoError(t, err)
	require.Equal(t, []item.Item{breakfast, lunch}, meals)

	workouts, err := ListItems(ctx, database, item.KindWorkout)
	require.NoError(t, err)
	require.Equal(t, []item.Item{run}, workouts)
}

func TestItems_ListEmptyIsNotNil(t *testing.T) {
	database := setupDB(t)

	meals, err := ListItems(context.Background(), database, item.KindMeal)
	require.NoError(t, err)
	require.NotNil(t, meals)
	require.Empty(t, meals)
}

func TestInsertItem_DuplicateID(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	it := mustItem(t, item.KindMeal, "Snack", 100)
	require.NoError(t, InsertItem(ctx, database, it))
	require.Error(t, InsertItem(ctx, database, it))
}

func TestDeleteItem(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	meal := mustItem(t, item.KindMeal, "Dinner", 700)
	require.NoError(t, InsertItem(ctx, database, meal))

	// Wrong kind does not match
	deleted, err := DeleteItem(ctx, database, item.KindWorkout, meal.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = DeleteItem(ctx, database, item.KindMeal, meal.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = DeleteItem(ctx, database, item.KindMeal, meal.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestClearDay_KeepsLimit(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	require.NoError(t, PutSetting(ctx, database, KeyCalorieLimit, 2500))
	require.NoError(t, PutSetting(ctx, database, KeyTotalCalories, 420))
	require.NoError(t, InsertItem(ctx, database, mustItem(t, item.KindMeal, "Pie", 420)))

	require.NoError(t, ClearDay(ctx, database))

	limit, err := GetSetting(ctx, database, KeyCalorieLimit, 2000)
	require.NoError(t, err)
	require.Equal(t, 2500, limit)

	total, err := GetSetting(ctx, database, KeyTotalCalories, -1)
	require.NoError(t, err)
	require.Equal(t, 0, total)

	meals, err := ListItems(ctx, database, item.KindMeal)
	require.NoError(t, err)
	require.Empty(t, meals)
}

func TestStore_Contract(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()
	s := NewStore(database, 2100)

	limit, err := s.CalorieLimit(ctx)
	require.NoError(t, err)
	require.Equal(t, 2100, limit)

	total, err := s.TotalCalories(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, total)

	meal := mustItem(t, item.KindMeal, "Oats", 300)
	require.NoError(t, s.SaveItem(ctx, meal, 300))

	items, err := s.Items(ctx, item.KindMeal)
	require.NoError(t, err)
	require.Len(t, items, 1)
	total, err = s.TotalCalories(ctx)
	require.NoError(t, err)
	require.Equal(t, 300, total)

	// Removing an unknown id is not an error
	require.NoError(t, s.RemoveItem(ctx, item.KindMeal, "missing", 300))
	require.NoError(t, s.RemoveItem(ctx, item.KindMeal, meal.ID, 0))

	items, err = s.Items(ctx, item.KindMeal)
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, s.SetCalorieLimit(ctx, 1900))
	require.NoError(t, s.ClearItems(ctx))
	limit, err = s.CalorieLimit(ctx)
	require.NoError(t, err)
	require.Equal(t, 1900, limit)
}

func TestSaveItemWithTotal_FailedInsertKeepsTotal(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	meal := mustItem(t, item.KindMeal, "Stew", 500)
	require.NoError(t, SaveItemWithTotal(ctx, database, meal, 500))

	// Duplicate id fails the insert; the total write is rolled back
	require.Error(t, SaveItemWithTotal(ctx, database, meal, 1000))

	total, err := GetSetting(ctx, database, KeyTotalCalories, 0)
	require.NoError(t, err)
	require.Equal(t, 500, total)

	items, err := ListItems(ctx, database, item.KindMeal)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestRemoveItemWithTotal(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	run := mustItem(t, item.KindWorkout, "Run", 200)
	require.NoError(t, SaveItemWithTotal(ctx, database, run, -200))

	removed, err := RemoveItemWithTotal(ctx, database, item.KindWorkout, run.ID, 0)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = RemoveItemWithTotal(ctx, database, item.KindWorkout, run.ID, 0)
	require.NoError(t, err)
	require.False(t, removed)

	total, err := GetSetting(ctx, database, KeyTotalCalories, 0)
	require.NoError(t, err)
	require.Equal(t, 0, total)
}
