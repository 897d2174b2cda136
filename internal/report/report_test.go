package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/tracker"
)

func TestMarkdown_Empty(t *testing.T) {
	md := Markdown(tracker.Summarize(tracker.State{Limit: 2000}))

	require.Contains(t, md, "# Calorie report")
	require.Contains(t, md, "| Daily limit | 2000 |")
	require.Contains(t, md, "| Remaining | 2000 |")
	require.Contains(t, md, "Status: **Under limit** (0% of limit)")
	require.Contains(t, md, "_No meals logged._")
	require.Contains(t, md, "_No workouts logged._")
}

func TestMarkdown_OverLimit(t *testing.T) {
	s := tracker.Summarize(tracker.State{
		Limit: 2000,
		Total: 2300,
		Meals: []item.Item{
			{ID: "1", Kind: item.KindMeal, Name: "Burger", Calories: 1500},
			{ID: "2", Kind: item.KindMeal, Name: "Shake", Calories: 1000},
		},
		Workouts: []item.Item{
			{ID: "3", Kind: item.KindWorkout, Name: "Row", Calories: 200},
		},
	})

	md := Markdown(s)
	require.Contains(t, md, "Status: **Over limit** (100% of limit)")
	require.Contains(t, md, "## Meals")
	require.Contains(t, md, "- Burger: 1500 kcal")
	require.Contains(t, md, "2 meals, 2500 kcal")
	require.Contains(t, md, "## Workouts")
	require.Contains(t, md, "- Row: 200 kcal")
	require.Contains(t, md, "| Remaining | -300 |")
}

func TestMarkdown_EscapesNames(t *testing.T) {
	s := tracker.Summarize(tracker.State{
		Limit: 2000,
		Meals: []item.Item{{ID: "1", Kind: item.KindMeal, Name: "*bold* <b>", Calories: 10}},
	})
	md := Markdown(s)
	require.Contains(t, md, `- \*bold\* \<b>: 10 kcal`)
}
