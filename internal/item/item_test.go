package item

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"meal", KindMeal, false},
		{"Meals", KindMeal, false},
		{" workout ", KindWorkout, false},
		{"workouts", KindWorkout, false},
		{"snack", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestKind_SignAndPlural(t *testing.T) {
	require.Equal(t, 1, KindMeal.Sign())
	require.Equal(t, -1, KindWorkout.Sign())
	require.Equal(t, "meals", KindMeal.Plural())
	require.Equal(t, "workouts", KindWorkout.Plural())
}

func TestNew(t *testing.T) {
	it, err := NewMeal("  Lunch ", 500)
	require.NoError(t, err)
	require.Len(t, it.ID, 26)
	require.Equal(t, KindMeal, it.Kind)
	require.Equal(t, "Lunch", it.Name)
	require.Equal(t, 500, it.Calories)
	require.NotZero(t, it.CreatedAt)
	require.Equal(t, 500, it.Contribution())

	w, err := NewWorkout("Run", 200)
	require.NoError(t, err)
	require.Equal(t, -200, w.Contribution())
	require.NotEqual(t, it.ID, w.ID)
}

func TestNew_AcceptsNegativeCalories(t *testing.T) {
	it, err := NewMeal("Odd", -50)
	require.NoError(t, err)
	require.Equal(t, -50, it.Calories)
}

func TestSum(t *testing.T) {
	require.Equal(t, 0, Sum(nil))
	require.Equal(t, 700, Sum([]Item{{Calories: 500}, {Calories: 200}}))
}
