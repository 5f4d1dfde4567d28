package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/zapponejosh/ramadan-api/internal/calendar"
	"github.com/zapponejosh/ramadan-api/internal/dashboard"
)

const barWidth = 29

// bar draws fraction (0..1) as a fixed-width bar.
func bar(fraction float64, width int) string {
	if math.IsNaN(fraction) {
		fraction = 0
	}
	filled := int(math.Round(math.Max(0, math.Min(1, fraction)) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// horizon places the sun marker along the arc at fraction (0..1).
func horizon(fraction float64, width int) string {
	pos := int(math.Round(math.Max(0, math.Min(1, fraction)) * float64(width-1)))
	return strings.Repeat("·", pos) + "☀" + strings.Repeat("·", width-1-pos)
}

// statusLine is the one-line form used when stdout is not a terminal.
func statusLine(d dashboard.Dashboard) string {
	p := d.Progress
	return fmt.Sprintf("%s %s | %s | fullført %d, igjen %d (%d%%) | solnedgang %s",
		p.Today, d.Clock, d.Title, p.CompletedDays, p.RemainingDays, d.RemainingRounded, d.Sunset)
}

func renderDashboard(w io.Writer, d dashboard.Dashboard) error {
	p := d.Progress
	var b strings.Builder

	fmt.Fprintf(&b, "☾ Ramadan i Oslo    %s    %s\n", d.DateLine, d.Clock)
	fmt.Fprintf(&b, "Soloppgang %s · Solnedgang %s\n", d.Sunrise, d.Sunset)
	fmt.Fprintf(&b, "%s\n\n", horizon(p.SunPosition, barWidth))

	fmt.Fprintf(&b, "%s\n", d.Title)
	fmt.Fprintf(&b, "Dager fullført %d · Dager igjen %d · Gjenstår %d%%\n",
		p.CompletedDays, p.RemainingDays, d.RemainingRounded)
	fmt.Fprintf(&b, "Fastet %s %.0f%%\n", bar(p.CompletedPercent/100, barWidth), p.CompletedPercent)

	if len(d.Today) > 0 {
		b.WriteString("\nI dag\n")
		for _, e := range d.Today {
			fmt.Fprintf(&b, "  %s\n    %s\n", e.Title, e.Short)
		}
	}

	fmt.Fprintf(&b, "\nDag for dag · %s\n", d.Pill)
	for i, cell := range d.Days {
		marker := " "
		switch {
		case cell.IsSelected:
			marker = ">"
		case cell.IsToday:
			marker = "*"
		}
		fmt.Fprintf(&b, "%s%2d %-5s", marker, cell.Number, hintShort(cell.Hint))
		if (i+1)%7 == 0 || i == len(d.Days)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString("  ")
		}
	}

	if sel := d.Selected; sel != nil {
		fmt.Fprintf(&b, "\n%s\n", sel.Title)
		if sel.Text != "" {
			fmt.Fprintf(&b, "  %s\n", sel.Text)
		}
		for _, e := range sel.Events {
			fmt.Fprintf(&b, "  %s\n    %s\n    %s\n", e.Title, e.Short, e.More)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func hintShort(hint string) string {
	if hint == dashboard.HintLocked {
		return "låst"
	}
	return "åpen"
}

func renderDays(w io.Writer, cells []dashboard.DayCell) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAG\tDATO\tSTATUS\tMARKERINGER")
	for _, cell := range cells {
		markings := "-"
		if cell.Unlocked {
			if titles := eventTitles(cell.Number); titles != "" {
				markings = titles
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", cell.Number, cell.Date, cell.Hint, markings)
	}
	return tw.Flush()
}

func eventTitles(day int) string {
	events := calendar.SpecialEventsForOrdinalDay(day)
	titles := make([]string, len(events))
	for i, e := range events {
		titles[i] = e.Title
	}
	return strings.Join(titles, ", ")
}
