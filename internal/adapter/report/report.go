// Package report prints analysis tables to a terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/analysis"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

// BValues prints one row per (set, Mc) estimate. Values are rounded to two
// decimals.
func BValues(w io.Writer, estimates []analysis.BValueEstimate) {
	table := newTable(w, []string{"Set", "Mc", "N", "Mean\nmag", "b", "b error", "a"})
	for _, e := range estimates {
		table.Append([]string{
			strconv.Itoa(e.SetID),
			fmt.Sprintf("%.1f", e.Completeness),
			strconv.Itoa(e.N),
			fmt.Sprintf("%.2f", analysis.Round2(e.MeanMagnitude)),
			fmt.Sprintf("%.2f", analysis.Round2(e.B)),
			fmt.Sprintf("%.2f", analysis.Round2(e.BError)),
			fmt.Sprintf("%.2f", analysis.Round2(e.A)),
		})
	}
	table.Render()
}

// Sets prints the per-set summary.
func Sets(w io.Writer, sets []analysis.Set) {
	table := newTable(w, []string{"Set", "Label", "Start", "End", "Events", "Min\nmag", "Max\nmag"})
	table.SetRowLine(true)
	for _, s := range sets {
		table.Append([]string{
			strconv.Itoa(s.ID),
			s.Label,
			formatBound(s.Start),
			formatBound(s.End),
			strconv.Itoa(s.Count),
			fmt.Sprintf("%.2f", s.MinMagnitude),
			fmt.Sprintf("%.2f", s.MaxMagnitude),
		})
	}
	table.Render()
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
