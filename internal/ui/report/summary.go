// Package report renders the terminal report printed after an analysis.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lddtopo/internal/data/history"
	"lddtopo/internal/engine/graph"
	"lddtopo/internal/engine/loadorder"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Width(12)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	unresolvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)
)

// Report is everything one run has to say. Result is nil when Err is set.
type Report struct {
	Library string
	Result  *loadorder.TopoSortResult
	Stats   loadorder.Stats
	Err     error
	Diff    *history.OrderDiff
	Written []string
}

// Render formats r for a terminal. Colours drop out automatically when the
// output is not a TTY.
func Render(r Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("lddtopo: "+r.Library) + "\n")

	var cerr *graph.CycleError
	switch {
	case errors.As(r.Err, &cerr):
		b.WriteString(cycleStyle.Render("dependency cycle") + "\n")
		b.WriteString(row("node", cerr.Name))
		b.WriteString(row("cycle", strings.Join(append(append([]string{}, cerr.Cycle...), cerr.Name), " -> ")))
		b.WriteString(statusStyle.Render("no output files were written") + "\n")
		return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
	case r.Err != nil:
		b.WriteString(cycleStyle.Render("failed") + "\n")
		b.WriteString(row("error", r.Err.Error()))
		return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
	}

	b.WriteString(successStyle.Render("load order computed") + "\n")
	b.WriteString(row("vertices", fmt.Sprint(r.Stats.Vertices)))
	b.WriteString(row("edges", fmt.Sprint(r.Stats.Edges)))
	if r.Stats.Dangling > 0 {
		b.WriteString(row("dangling", unresolvedStyle.Render(fmt.Sprint(r.Stats.Dangling))))
	}
	b.WriteString(row("duration", r.Stats.Duration.Round(time.Microsecond).String()))

	if r.Result != nil && len(r.Result.TopoSortedLibs) > 0 {
		b.WriteString("\n")
		width := len(fmt.Sprint(len(r.Result.TopoSortedLibs)))
		for i, lib := range r.Result.TopoSortedLibs {
			path := lib.PathOf()
			if lib.Path == nil {
				path = unresolvedStyle.Render("unresolved")
			}
			fmt.Fprintf(&b, "%*d  %s  %s\n", width, i+1, lib.Name, statusStyle.Render(path))
		}
	}

	if r.Diff != nil {
		b.WriteString("\n")
		if r.Diff.Empty() {
			b.WriteString(statusStyle.Render("unchanged since last run") + "\n")
		} else {
			writeList(&b, "added", r.Diff.Added)
			writeList(&b, "removed", r.Diff.Removed)
			writeList(&b, "moved", r.Diff.Moved)
		}
	}

	if len(r.Written) > 0 {
		b.WriteString("\n")
		writeList(&b, "wrote", r.Written)
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(row(label, strings.Join(items, ", ")))
}
