// Package term renders tracker state for the terminal.
package term

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/tracker"
)

// View is a tracker.View that keeps the latest rendered values and draws
// them on demand.
type View struct {
	Palette Palette
	// BarWidth is the progress bar width in cells.
	BarWidth int

	slots    map[tracker.Slot]int
	progress float64
	over     bool
	meals    []item.Item
	workouts []item.Item
}

// NewView returns a View with the default palette.
func NewView(barWidth int) *View {
	if barWidth <= 0 {
		barWidth = 40
	}
	return &View{
		Palette:  Flexoki,
		BarWidth: barWidth,
		slots:    make(map[tracker.Slot]int),
	}
}

func (v *View) ShowSlot(slot tracker.Slot, value int) { v.slots[slot] = value }

func (v *View) ShowProgress(pct float64) { v.progress = pct }

func (v *View) ShowOverLimit(over bool) { v.over = over }

func (v *View) AppendItem(it item.Item) {
	if it.Kind == item.KindWorkout {
		v.workouts = append(v.workouts, it)
		return
	}
	v.meals = append(v.meals, it)
}

func (v *View) RemoveItem(kind item.Kind, id string) {
	list := &v.meals
	if kind == item.KindWorkout {
		list = &v.workouts
	}
	*list = slices.DeleteFunc(*list, func(it item.Item) bool { return it.ID == id })
}

func (v *View) ClearItems() {
	v.meals = nil
	v.workouts = nil
}

// Render draws summary cards, the progress bar and both item lists.
func (v *View) Render() string {
	p := v.Palette
	stateColor := p.Under
	if v.over {
		stateColor = p.Over
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		v.card("Limit", v.slots[tracker.SlotLimit], p.Accent),
		v.card("Consumed", v.slots[tracker.SlotConsumed], p.Meal),
		v.card("Burned", v.slots[tracker.SlotBurned], p.Workout),
		v.card("Net", v.slots[tracker.SlotTotal], p.TextPrimary),
		v.card("Remaining", v.slots[tracker.SlotRemaining], stateColor),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n")
	b.WriteString(ProgressBar(v.progress, v.BarWidth, stateColor, p.Empty))
	b.WriteString("\n\n")
	b.WriteString(v.list("Meals", v.meals, p.Meal))
	b.WriteString("\n")
	b.WriteString(v.list("Workouts", v.workouts, p.Workout))
	return b.String()
}

func (v *View) card(label string, value int, color lipgloss.Color) string {
	labelStyle := lipgloss.NewStyle().Foreground(v.Palette.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(v.Palette.Border).
		Padding(0, 1).
		Width(13)
	return box.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(fmt.Sprintf("%d", value)))
}

func (v *View) list(title string, items []item.Item, color lipgloss.Color) string {
	titleStyle := lipgloss.NewStyle().Foreground(v.Palette.TextPrimary).Bold(true)
	calStyle := lipgloss.NewStyle().Foreground(color)
	idStyle := lipgloss.NewStyle().Foreground(v.Palette.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(idStyle.Render("  none"))
		b.WriteString("\n")
		return b.String()
	}
	for _, it := range items {
		fmt.Fprintf(&b, "  %-24s %s  %s\n",
			it.Name,
			calStyle.Render(fmt.Sprintf("%6d", it.Calories)),
			idStyle.Render(it.ID),
		)
	}
	return b.String()
}

// ProgressBar renders pct (0 to 100) as a filled bar followed by the percentage.
func ProgressBar(pct float64, width int, fill, empty lipgloss.Color) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(fill)
	emptyStyle := lipgloss.NewStyle().Foreground(empty)
	pctStyle := lipgloss.NewStyle().Foreground(fill).Bold(true)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	return b.String() + " " + pctStyle.Render(fmt.Sprintf("%.0f%%", pct))
}
