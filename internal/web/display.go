package web

import (
	"slices"
	"sync"

	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/tracker"
)

// Display is the document the browser pages are rendered from. The tracker
// writes into it through the tracker.View methods; handlers read it with
// Snapshot.
type Display struct {
	mu       sync.RWMutex
	slots    map[tracker.Slot]int
	progress float64
	over     bool
	meals    []item.Item
	workouts []item.Item
}

// DisplayState is a point-in-time copy of a Display.
type DisplayState struct {
	Limit     int
	Total     int
	Consumed  int
	Burned    int
	Remaining int
	Progress  float64
	OverLimit bool
	Meals     []item.Item
	Workouts  []item.Item
}

// NewDisplay returns an empty Display.
func NewDisplay() *Display {
	return &Display{slots: make(map[tracker.Slot]int)}
}

func (d *Display) ShowSlot(slot tracker.Slot, value int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slots[slot] = value
}

func (d *Display) ShowProgress(pct float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.progress = pct
}

func (d *Display) ShowOverLimit(over bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.over = over
}

func (d *Display) AppendItem(it item.Item) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if it.Kind == item.KindWorkout {
		d.workouts = append(d.workouts, it)
		return
	}
	d.meals = append(d.meals, it)
}

func (d *Display) RemoveItem(kind item.Kind, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := &d.meals
	if kind == item.KindWorkout {
		list = &d.workouts
	}
	*list = slices.DeleteFunc(*list, func(it item.Item) bool { return it.ID == id })
}

func (d *Display) ClearItems() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.meals = nil
	d.workouts = nil
}

// Snapshot copies the current display contents.
func (d *Display) Snapshot() DisplayState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DisplayState{
		Limit:     d.slots[tracker.SlotLimit],
		Total:     d.slots[tracker.SlotTotal],
		Consumed:  d.slots[tracker.SlotConsumed],
		Burned:    d.slots[tracker.SlotBurned],
		Remaining: d.slots[tracker.SlotRemaining],
		Progress:  d.progress,
		OverLimit: d.over,
		Meals:     slices.Clone(d.meals),
		Workouts:  slices.Clone(d.workouts),
	}
}
