// Package tracker holds the calorie aggregator: the day's limit, the running
// total and the meal and workout lists. Every mutation is mirrored to a Store
// and re-rendered through a View.
package tracker

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/hpungsan/kcal/internal/errors"
	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/logger"
)

// Store is the persistence collaborator.
type Store interface {
	CalorieLimit(ctx context.Context) (int, error)
	SetCalorieLimit(ctx context.Context, limit int) error
	TotalCalories(ctx context.Context) (int, error)
	// Items returns stored items of one kind in insertion order.
	Items(ctx context.Context, kind item.Kind) ([]item.Item, error)
	// SaveItem stores it together with the new total. Both are written or
	// neither is.
	SaveItem(ctx context.Context, it item.Item, total int) error
	// RemoveItem deletes an item together with writing the new total. Both
	// are written or neither is.
	RemoveItem(ctx context.Context, kind item.Kind, id string, total int) error
	// ClearItems drops every item and zeroes the total. The limit is kept.
	ClearItems(ctx context.Context) error
}

// Slot names a numeric display field.
type Slot string

const (
	SlotLimit     Slot = "limit"
	SlotTotal     Slot = "total"
	SlotConsumed  Slot = "consumed"
	SlotBurned    Slot = "burned"
	SlotRemaining Slot = "remaining"
)

// View is the presentation collaborator.
type View interface {
	ShowSlot(slot Slot, value int)
	// ShowProgress receives the consumed share of the limit, 0 to 100.
	ShowProgress(pct float64)
	// ShowOverLimit switches between the under-limit and over-limit states.
	ShowOverLimit(over bool)
	AppendItem(it item.Item)
	RemoveItem(kind item.Kind, id string)
	ClearItems()
}

// State is the aggregator's owned state.
type State struct {
	Limit    int
	Total    int
	Meals    []item.Item
	Workouts []item.Item
}

// Tracker is the calorie aggregator. Total is kept incrementally: it always
// equals the sum of meal calories minus the sum of workout calories.
type Tracker struct {
	mu    sync.Mutex
	state State
	store Store
	view  View
	log   *logger.Logger
}

// New loads state from store and renders every display slot once.
// A nil view discards rendering; a nil log discards logging.
func New(ctx context.Context, store Store, view View, log *logger.Logger) (*Tracker, error) {
	if view == nil {
		view = nopView{}
	}
	if log == nil {
		log = logger.Nop()
	}

	limit, err := store.CalorieLimit(ctx)
	if err != nil {
		return nil, fmt.Errorf("load calorie limit: %w", err)
	}
	total, err := store.TotalCalories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load total calories: %w", err)
	}
	meals, err := store.Items(ctx, item.KindMeal)
	if err != nil {
		return nil, fmt.Errorf("load meals: %w", err)
	}
	workouts, err := store.Items(ctx, item.KindWorkout)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	t := &Tracker{
		state: State{
			Limit:    limit,
			Total:    total,
			Meals:    nonNil(meals),
			Workouts: nonNil(workouts),
		},
		store: store,
		view:  view,
		log:   log.With("component", "tracker"),
	}

	t.view.ShowSlot(SlotLimit, t.state.Limit)
	t.render()

	t.log.Debug("state loaded",
		"limit", limit,
		"total", total,
		"meals", len(t.state.Meals),
		"workouts", len(t.state.Workouts),
	)
	return t, nil
}

// AddMeal appends a meal and raises the total by its calories.
func (t *Tracker) AddMeal(ctx context.Context, meal item.Item) error {
	meal.Kind = item.KindMeal
	return t.add(ctx, meal)
}

// AddWorkout appends a workout and lowers the total by its calories.
func (t *Tracker) AddWorkout(ctx context.Context, workout item.Item) error {
	workout.Kind = item.KindWorkout
	return t.add(ctx, workout)
}

// RemoveMeal removes the meal with the given id. An unknown id is a no-op and
// reports false.
func (t *Tracker) RemoveMeal(ctx context.Context, id string) (bool, error) {
	return t.remove(ctx, item.KindMeal, id)
}

// RemoveWorkout removes the workout with the given id. An unknown id is a
// no-op and reports false.
func (t *Tracker) RemoveWorkout(ctx context.Context, id string) (bool, error) {
	return t.remove(ctx, item.KindWorkout, id)
}

// Remove dispatches to RemoveMeal or RemoveWorkout.
func (t *Tracker) Remove(ctx context.Context, kind item.Kind, id string) (bool, error) {
	return t.remove(ctx, kind, id)
}

// Reset zeroes the total and empties both lists. The limit is kept.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.Total = 0
	t.state.Meals = []item.Item{}
	t.state.Workouts = []item.Item{}

	err := t.store.ClearItems(ctx)

	t.view.ClearItems()
	t.render()

	t.log.Info("day reset")
	return t.persistErr("reset", err)
}

// SetLimit overwrites the daily calorie limit.
func (t *Tracker) SetLimit(ctx context.Context, limit int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.Limit = limit
	err := t.store.SetCalorieLimit(ctx, limit)

	t.view.ShowSlot(SlotLimit, limit)
	t.render()

	t.log.Info("limit set", "limit", limit)
	return t.persistErr("set limit", err)
}

// LoadItems replays the current meals and workouts into the view without
// touching the totals.
func (t *Tracker) LoadItems() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, m := range t.state.Meals {
		t.view.AppendItem(m)
	}
	for _, w := range t.state.Workouts {
		t.view.AppendItem(w)
	}
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.copyState()
}

// Snapshot returns the current state together with its derived values.
func (t *Tracker) Snapshot() Summary {
	return Summarize(t.State())
}

// Meals returns a copy of the meal list.
func (t *Tracker) Meals() []item.Item {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.state.Meals)
}

// Workouts returns a copy of the workout list.
func (t *Tracker) Workouts() []item.Item {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.state.Workouts)
}

// Filter returns items of kind whose name contains text, ignoring case.
// An empty text returns every item of that kind.
func (t *Tracker) Filter(kind item.Kind, text string) []item.Item {
	t.mu.Lock()
	defer t.mu.Unlock()
	return FilterItems(*t.list(kind), text)
}

// FilterItems is the list-level half of Filter.
func FilterItems(items []item.Item, text string) []item.Item {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]item.Item, 0, len(items))
	for _, it := range items {
		if needle == "" || strings.Contains(strings.ToLower(it.Name), needle) {
			out = append(out, it)
		}
	}
	return out
}

func (t *Tracker) add(ctx context.Context, it item.Item) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.list(it.Kind)
	*list = append(*list, it)
	t.state.Total += it.Contribution()

	err := t.store.SaveItem(ctx, it, t.state.Total)

	t.view.AppendItem(it)
	t.render()

	t.log.Debug("item added",
		"kind", it.Kind,
		"id", it.ID,
		"calories", it.Calories,
		"total", t.state.Total,
	)
	return t.persistErr("add "+string(it.Kind), err)
}

func (t *Tracker) remove(ctx context.Context, kind item.Kind, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.list(kind)
	idx := slices.IndexFunc(*list, func(it item.Item) bool { return it.ID == id })
	if idx == -1 {
		return false, nil
	}

	removed := (*list)[idx]
	t.state.Total -= removed.Contribution()
	*list = slices.Delete(*list, idx, idx+1)

	err := t.store.RemoveItem(ctx, kind, id, t.state.Total)

	t.view.RemoveItem(kind, id)
	t.render()

	t.log.Debug("item removed",
		"kind", kind,
		"id", id,
		"calories", removed.Calories,
		"total", t.state.Total,
	)
	return true, t.persistErr("remove "+string(kind), err)
}

// render pushes every derived summary field to the view. Caller holds mu.
func (t *Tracker) render() {
	s := Summarize(t.state)
	t.view.ShowSlot(SlotTotal, s.Total)
	t.view.ShowSlot(SlotConsumed, s.Consumed)
	t.view.ShowSlot(SlotBurned, s.Burned)
	t.view.ShowSlot(SlotRemaining, s.Remaining)
	t.view.ShowOverLimit(s.OverLimit)
	t.view.ShowProgress(s.Progress)
}

func (t *Tracker) list(kind item.Kind) *[]item.Item {
	if kind == item.KindWorkout {
		return &t.state.Workouts
	}
	return &t.state.Meals
}

func (t *Tracker) copyState() State {
	return State{
		Limit:    t.state.Limit,
		Total:    t.state.Total,
		Meals:    slices.Clone(t.state.Meals),
		Workouts: slices.Clone(t.state.Workouts),
	}
}

// persistErr logs and wraps a store failure. In-memory state has already
// been updated when this runs.
func (t *Tracker) persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	t.log.Error("persist failed", "op", op, "error", err)
	return errors.NewInternal(fmt.Errorf("%s: %w", op, err))
}

func nonNil(items []item.Item) []item.Item {
	if items == nil {
		return []item.Item{}
	}
	return items
}

type nopView struct{}

func (nopView) ShowSlot(Slot, int) {}
func (nopView) ShowProgress(float64) {}
func (nopView) ShowOverLimit(bool) {}
func (nopView) AppendItem(item.Item) {}
func (nopView) RemoveItem(item.Kind, string) {}
func (nopView) ClearItems() {}
