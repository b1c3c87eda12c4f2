package summary

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	afternoon := time.Date(2026, time.October, 9, 15, 4, 5, 0, time.UTC)
	morning := time.Date(2026, time.March, 21, 0, 30, 9, 0, time.UTC)

	assert.Equal(t, "Test-Run-Overall-Summary-e2e-results-Oct-9-2026_3-04-05-PM", BaseName(afternoon))
	assert.Equal(t, "Test-Run-Overall-Summary-e2e-results-Oct-9-2026_3-04-05-PM.json", JSONName(afternoon))
	assert.Equal(t, "Test-Run-Overall-Summary-e2e-results-Mar-21-2026_12-30-09-AM.txt", TextName(morning))
}

func Test_GivenEntries_WhenRenderingText_ThenEachEntryIsABlock(t *testing.T) {
	// Given
	entries := []results.ShardResult{
		{
			Environment: "staging",
			Browser:     "chrome",
			TestType:    results.TestTypeParallelSequential,
			Ran:         15,
			Passed:      13,
			Failed:      2,
			FailedTestsDetails: []json.RawMessage{
				json.RawMessage(`{"testName":"login","message":"expected <div>"}`),
			},
		},
		{Environment: "prod", Browser: "firefox", TestType: results.TestTypeParallel, Ran: 1, Passed: 1},
	}

	// When
	text, err := RenderText(entries)

	// Then
	require.NoError(t, err)
	expected := "Environment: staging\n" +
		"Browser Name: chrome\n" +
		"Browser Test Type: parallel+sequential\n" +
		"Number of tests ran: 15\n" +
		"Number of tests passed: 13\n" +
		"Number of tests failed: 2\n" +
		"failedTestsDetails: [\n" +
		"    {\n" +
		"        \"testName\": \"login\",\n" +
		"        \"message\": \"expected <div>\"\n" +
		"    }\n" +
		"]\n\n" +
		"Environment: prod\n" +
		"Browser Name: firefox\n" +
		"Browser Test Type: parallel\n" +
		"Number of tests ran: 1\n" +
		"Number of tests passed: 1\n" +
		"Number of tests failed: 0\n" +
		"failedTestsDetails: []\n\n"
	assert.Equal(t, expected, text)
}

func Test_GivenNoEntries_WhenRenderingText_ThenTextIsEmpty(t *testing.T) {
	text, err := RenderText(nil)

	require.NoError(t, err)
	assert.Empty(t, text)
}

func Test_GivenEntries_WhenWritingTable_ThenRowsAndTotalsArePrinted(t *testing.T) {
	// Given
	entries := []results.ShardResult{
		{Environment: "staging", Browser: "chrome", TestType: results.TestTypeParallelSequential, Ran: 15, Passed: 13, Failed: 2},
		{Environment: "staging", Browser: "edge", TestType: results.TestTypeSequential, Ran: 4, Passed: 4},
	}
	var out bytes.Buffer

	// When
	WriteTable(&out, entries)

	// Then
	assert.Contains(t, out.String(), "parallel+sequential")
	assert.Contains(t, out.String(), "edge")
	assert.Contains(t, out.String(), "19")
	assert.Contains(t, out.String(), "17")
}
