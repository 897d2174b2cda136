package term

import "github.com/charmbracelet/lipgloss"

// Palette defines the colour roles used by the terminal view.
type Palette struct {
	Border      lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color
	Accent      lipgloss.Color
	Meal        lipgloss.Color
	Workout     lipgloss.Color
	Under       lipgloss.Color // progress and remaining while under the limit
	Over        lipgloss.Color // progress and remaining once the limit is reached
	Empty       lipgloss.Color
}

// Flexoki is the default palette.
var Flexoki = Palette{
	Border:      lipgloss.Color("#403E3C"),
	TextMuted:   lipgloss.Color("#878580"),
	TextPrimary: lipgloss.Color("#FFFCF0"),
	Accent:      lipgloss.Color("#3AA99F"),
	Meal:        lipgloss.Color("#4385BE"),
	Workout:     lipgloss.Color("#878580"),
	Under:       lipgloss.Color("#879A39"),
	Over:        lipgloss.Color("#D14D41"),
	Empty:       lipgloss.Color("#575653"),
}
