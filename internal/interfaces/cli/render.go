package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/turtacn/sabdamanthan/internal/panel"
)

var hueColors = map[string]color.Attribute{
	"blue":    color.FgBlue,
	"green":   color.FgGreen,
	"purple":  color.FgMagenta,
	"violet":  color.FgMagenta,
	"fuchsia": color.FgHiMagenta,
	"pink":    color.FgHiMagenta,
	"rose":    color.FgHiRed,
	"red":     color.FgRed,
	"yellow":  color.FgYellow,
	"amber":   color.FgYellow,
	"orange":  color.FgHiYellow,
	"lime":    color.FgHiGreen,
	"emerald": color.FgHiGreen,
	"teal":    color.FgCyan,
	"cyan":    color.FgHiCyan,
	"sky":     color.FgHiBlue,
	"indigo":  color.FgHiBlue,
	"gray":    color.FgHiBlack,
}

// paint renders s in the terminal color closest to a label hue.
func paint(hue, s string) string {
	attr, ok := hueColors[hue]
	if !ok {
		attr = color.FgWhite
	}
	return color.New(attr, color.Bold).Sprint(s)
}

// renderInline writes the input with every annotated run colored and
// followed by its tag.
func renderInline(w io.Writer, segments []panel.SegmentView) {
	var sb strings.Builder
	for _, seg := range segments {
		if !seg.Annotated {
			sb.WriteString(seg.Text)
			continue
		}
		sb.WriteString(paint(seg.Hue, seg.Text))
		sb.WriteString(color.HiBlackString("/" + seg.Tag))
	}
	fmt.Fprintln(w, sb.String())
}

// renderLegend writes one line per legend entry.
func renderLegend(w io.Writer, title string, entries []panel.LegendEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprint(title))
	width := 0
	for _, e := range entries {
		if len(e.Tag) > width {
			width = len(e.Tag)
		}
	}
	for _, e := range entries {
		pad := strings.Repeat(" ", width-len(e.Tag))
		fmt.Fprintf(w, "  %s%s  %s\n", paint(e.Hue, e.Tag), pad, e.Description)
	}
}

// renderTable writes rows under headers with tablewriter.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
