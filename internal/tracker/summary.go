package tracker

import (
	"slices"

	"github.com/hpungsan/kcal/internal/item"
)

// Summary is a state snapshot plus the values the display derives from it.
type Summary struct {
	Limit     int         `json:"limit"`
	Total     int         `json:"total"`
	Consumed  int         `json:"consumed"`
	Burned    int         `json:"burned"`
	Remaining int         `json:"remaining"`
	Progress  float64     `json:"progress"`
	OverLimit bool        `json:"over_limit"`
	Meals     []item.Item `json:"meals"`
	Workouts  []item.Item `json:"workouts"`
}

// Summarize derives display values from s. Consumed and burned are summed
// from the lists; total is taken as stored.
func Summarize(s State) Summary {
	remaining := s.Limit - s.Total
	return Summary{
		Limit:     s.Limit,
		Total:     s.Total,
		Consumed:  item.Sum(s.Meals),
		Burned:    item.Sum(s.Workouts),
		Remaining: remaining,
		Progress:  Progress(s.Total, s.Limit),
		OverLimit: remaining <= 0,
		Meals:     nonNil(slices.Clone(s.Meals)),
		Workouts:  nonNil(slices.Clone(s.Workouts)),
	}
}

// Progress is total as a percentage of limit, clamped to [0, 100].
// With no positive limit any positive total reads as full.
func Progress(total, limit int) float64 {
	if limit <= 0 {
		if total > 0 {
			return 100
		}
		return 0
	}
	pct := float64(total) / float64(limit) * 100
	return min(max(pct, 0), 100)
}
