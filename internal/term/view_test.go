package term

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/kcal/internal/db"
	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/tracker"
)

func TestProgressBar_Clamps(t *testing.T) {
	bar := ProgressBar(150, 10, Flexoki.Over, Flexoki.Empty)
	require.Equal(t, 10, strings.Count(bar, "█"))
	require.Equal(t, 0, strings.Count(bar, "░"))

	bar = ProgressBar(-5, 10, Flexoki.Under, Flexoki.Empty)
	require.Equal(t, 0, strings.Count(bar, "█"))
	require.Equal(t, 10, strings.Count(bar, "░"))

	bar = ProgressBar(50, 10, Flexoki.Under, Flexoki.Empty)
	require.Equal(t, 5, strings.Count(bar, "█"))
	require.Contains(t, bar, "50%")
}

func TestView_TracksItems(t *testing.T) {
	v := NewView(20)
	a := item.Item{ID: "a", Kind: item.KindMeal, Name: "Apple", Calories: 95}
	b := item.Item{ID: "b", Kind: item.KindWorkout, Name: "Yoga", Calories: 120}

	v.AppendItem(a)
	v.AppendItem(b)
	require.Len(t, v.meals, 1)
	require.Len(t, v.workouts, 1)

	v.RemoveItem(item.KindMeal, "b")
	require.Len(t, v.workouts, 1, "kind must match")

	v.RemoveItem(item.KindWorkout, "b")
	require.Empty(t, v.workouts)

	v.ClearItems()
	require.Empty(t, v.meals)
}

func TestView_RenderFromTracker(t *testing.T) {
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	v := NewView(20)
	tr, err := tracker.New(ctx, db.NewStore(database, 2000), v, nil)
	require.NoError(t, err)

	lunch, err := item.NewMeal("Lunch", 500)
	require.NoError(t, err)
	run, err := item.NewWorkout("Run", 200)
	require.NoError(t, err)
	require.NoError(t, tr.AddMeal(ctx, lunch))
	require.NoError(t, tr.AddWorkout(ctx, run))

	out := v.Render()
	for _, want := range []string{"Limit", "2000", "Consumed", "500", "Burned", "200", "Remaining", "1700", "Lunch", "Run", "15%"} {
		require.Contains(t, out, want)
	}
	require.False(t, v.over)
}
