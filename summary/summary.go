package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/results"
)

const (
	namePrefix = "Test-Run-Overall-Summary-e2e-results-"
	// month abbreviation, day, year, then hour-minute-second and AM/PM
	timestampLayout = "Jan-2-2006_3-04-05-PM"
)

// BaseName is the file name (without extension) of the overall summary written at t.
func BaseName(t time.Time) string {
	return namePrefix + t.Format(timestampLayout)
}

// JSONName ...
func JSONName(t time.Time) string {
	return BaseName(t) + ".json"
}

// TextName ...
func TextName(t time.Time) string {
	return BaseName(t) + ".txt"
}

// RenderText renders the human readable summary, one block per entry.
func RenderText(entries []results.ShardResult) (string, error) {
	var b strings.Builder
	for _, entry := range entries {
		details, err := results.MarshalIndent(entry.FailedTestsDetails)
		if err != nil {
			return "", fmt.Errorf("failed to render failure details of %s (%s): %w", entry.Browser, entry.Environment, err)
		}
		if entry.FailedTestsDetails == nil {
			details = []byte("[]")
		}

		fmt.Fprintf(&b, "Environment: %s\n", entry.Environment)
		fmt.Fprintf(&b, "Browser Name: %s\n", entry.Browser)
		fmt.Fprintf(&b, "Browser Test Type: %s\n", entry.TestType)
		fmt.Fprintf(&b, "Number of tests ran: %d\n", entry.Ran)
		fmt.Fprintf(&b, "Number of tests passed: %d\n", entry.Passed)
		fmt.Fprintf(&b, "Number of tests failed: %d\n", entry.Failed)
		fmt.Fprintf(&b, "failedTestsDetails: %s\n\n", details)
	}
	return b.String(), nil
}
