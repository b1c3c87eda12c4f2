package summary

import (
	"io"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/results"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteTable prints the overall summary as a console table with a totals footer.
func WriteTable(w io.Writer, entries []results.ShardResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("E2E Test Run Overall Summary")

	t.AppendHeader(table.Row{"Environment", "Browser", "Test Type", "Ran", "Passed", "Failed"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Environment", AutoMerge: true},
		{Name: "Ran", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
	})

	for _, entry := range entries {
		t.AppendRow(table.Row{entry.Environment, entry.Browser, string(entry.TestType), entry.Ran, entry.Passed, entry.Failed})
	}

	totals := results.Total(entries)
	t.AppendFooter(table.Row{"Total", "", "", totals.Ran, totals.Passed, totals.Failed})

	t.Render()
}
