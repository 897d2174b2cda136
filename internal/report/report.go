// Package report formats a tracker summary as a Markdown day report.
package report

import (
	"fmt"
	"strings"

	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/tracker"
)

// Markdown renders s as a Markdown document with a totals table and one
// section per item kind.
func Markdown(s tracker.Summary) string {
	var b strings.Builder

	b.WriteString("# Calorie report\n\n")
	b.WriteString("| Measure | kcal |\n")
	b.WriteString("|---|---:|\n")
	fmt.Fprintf(&b, "| Daily limit | %d |\n", s.Limit)
	fmt.Fprintf(&b, "| Consumed | %d |\n", s.Consumed)
	fmt.Fprintf(&b, "| Burned | %d |\n", s.Burned)
	fmt.Fprintf(&b, "| Net total | %d |\n", s.Total)
	fmt.Fprintf(&b, "| Remaining | %d |\n\n", s.Remaining)

	status := "Under limit"
	if s.OverLimit {
		status = "Over limit"
	}
	fmt.Fprintf(&b, "Status: **%s** (%.0f%% of limit)\n", status, s.Progress)

	writeSection(&b, item.KindMeal, s.Meals)
	writeSection(&b, item.KindWorkout, s.Workouts)

	return b.String()
}

func writeSection(b *strings.Builder, kind item.Kind, items []item.Item) {
	title := strings.ToUpper(kind.Plural()[:1]) + kind.Plural()[1:]
	fmt.Fprintf(b, "\n## %s\n\n", title)
	if len(items) == 0 {
		fmt.Fprintf(b, "_No %s logged._\n", kind.Plural())
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s: %d kcal\n", escape(it.Name), it.Calories)
	}
	fmt.Fprintf(b, "\n%d %s, %d kcal\n", len(items), kind.Plural(), item.Sum(items))
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"|", `\|`,
	"#", `\#`,
)

// escape neutralises Markdown syntax in user-supplied names.
func escape(s string) string {
	return mdEscaper.Replace(s)
}
