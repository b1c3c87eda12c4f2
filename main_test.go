package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parallelShard = `[
    {
        "Environment": "staging",
        "Browser": "chrome",
        "Browser-Test-Type": "parallel",
        "Number-of-tests-ran": 10,
        "Number-of-tests-passed": 8,
        "Number-of-tests-failed": 2,
        "failedTestsDetails": [
            {"testName": "login"},
            {"testName": "logout"}
        ]
    }
]`

const sequentialShard = `[
    {
        "Environment": "staging",
        "Browser": "chrome",
        "Browser-Test-Type": "sequential",
        "Number-of-tests-ran": 5,
        "Number-of-tests-passed": 5,
        "Number-of-tests-failed": 0,
        "failedTestsDetails": []
    }
]`

func Test_GivenShardFiles_WhenRunningWithoutCommand_ThenWritesTheOverallSummary(t *testing.T) {
	// Given
	reportDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(reportDir, "chrome-parallel-41.json"), []byte(parallelShard), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(reportDir, "chrome-sequential-41.json"), []byte(sequentialShard), 0644))
	browsersConfig := filepath.Join(t.TempDir(), "browsers.json")
	require.NoError(t, os.WriteFile(browsersConfig, []byte(`{"browsers": ["chrome", "firefox"]}`), 0644))

	t.Setenv("E2E_REPORT_DIR", reportDir)
	t.Setenv("E2E_BROWSERS_CONFIG", browsersConfig)
	t.Setenv("E2E_EXPORT_OUTPUTS", "no")

	// When
	_, err := runApp(t, "e2e-results")

	// Then
	require.NoError(t, err)

	entries, err := os.ReadDir(reportDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var jsonName string
	for _, entry := range entries {
		assert.True(t, strings.HasPrefix(entry.Name(), "Test-Run-Overall-Summary-e2e-results-"))
		if filepath.Ext(entry.Name()) == ".json" {
			jsonName = entry.Name()
		}
	}
	require.NotEmpty(t, jsonName)

	data, err := os.ReadFile(filepath.Join(reportDir, jsonName))
	require.NoError(t, err)
	var summary []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &summary))
	require.Len(t, summary, 1)
	assert.Equal(t, "parallel+sequential", summary[0]["Browser-Test-Type"])
	assert.Equal(t, float64(15), summary[0]["Number-of-tests-ran"])
}

func Test_GivenMissingReportDir_WhenRunningWithoutCommand_ThenFails(t *testing.T) {
	// Given
	t.Setenv("E2E_REPORT_DIR", filepath.Join(t.TempDir(), "missing"))

	// When
	_, err := runApp(t, "e2e-results")

	// Then
	require.Error(t, err)
}

func Test_GivenUnknownArgument_WhenRunning_ThenFails(t *testing.T) {
	_, err := runApp(t, "e2e-results", "concatenate-all")
	require.Error(t, err)
}

func Test_GivenResultArguments_WhenAddingResult_ThenPrintsThePayload(t *testing.T) {
	// When
	out, err := runApp(t, "e2e-results", "add-result", "4", "prod", "system", "2m3s")

	// Then
	require.NoError(t, err)
	assert.Equal(t, `{"status_id":1,"custom_kind":2,"custom_browser_id":4,"custom_env":3,"custom_class":2,"elapsed":"2m3s"}`+"\n", out)
}

func Test_GivenMissingArguments_WhenAddingResult_ThenFails(t *testing.T) {
	_, err := runApp(t, "e2e-results", "add-result", "4", "prod")
	require.Error(t, err)
}

func Test_GivenResult_WhenCommentingAndUpdatingStatus_ThenPrintsTheUpdatedPayloads(t *testing.T) {
	// When
	commented, err := runApp(t, "e2e-results", "add-comment", `{"status_id":1}`, "timed out")

	// Then
	require.NoError(t, err)
	assert.Equal(t, `{"comment":"timed out","status_id":1}`+"\n", commented)

	// When
	failed, err := runApp(t, "e2e-results", "update-status", strings.TrimSpace(commented))

	// Then
	require.NoError(t, err)
	assert.Equal(t, `{"comment":"timed out","status_id":5}`+"\n", failed)
}

func Test_GivenResponse_WhenGettingAndFilteringResults_ThenPrintsTheRemainingResults(t *testing.T) {
	// When
	results, err := runApp(t, "e2e-results", "get-results", `{"offset":0,"results":[{"id":1,"created_on":100,"custom_browser_id":1}]}`)

	// Then
	require.NoError(t, err)
	assert.Equal(t, `[{"created_on":100,"custom_browser_id":1,"id":1}]`+"\n", results)

	// When
	filtered, err := runApp(t, "e2e-results", "filter-results", strings.TrimSpace(results), "200")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "[]\n", filtered)
}

func Test_GivenInvalidTimestamp_WhenFilteringResults_ThenFails(t *testing.T) {
	_, err := runApp(t, "e2e-results", "filter-results", "[]", "yesterday")
	require.Error(t, err)
}

func Test_GivenJUnitReport_WhenReadingElapsedTime_ThenPrintsIt(t *testing.T) {
	// When
	out, err := runApp(t, "e2e-results", "elapsed-time", `<testsuites name="" time="65.2"></testsuites>`)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "1m5s\n", out)
}

func Test_GivenJUnitFile_WhenProcessingXML_ThenRewritesTheFile(t *testing.T) {
	// Given
	pth := filepath.Join(t.TempDir(), "results.xml")
	require.NoError(t, os.WriteFile(pth, []byte(`<testsuites name="" time="1"><testsuite name="a.spec.ts.Can-search"></testsuite></testsuites>`), 0644))

	// When
	_, err := runApp(t, "e2e-results", "process-xml", pth, "Search")

	// Then
	require.NoError(t, err)
	data, err := os.ReadFile(pth)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<testsuites name="Search" time="1">`)
	assert.Contains(t, string(data), `<testsuite name="Can search">`)
}

func Test_GivenCredentials_WhenPostingResult_ThenSendsItToTestRail(t *testing.T) {
	// Given
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/add_result_for_case/7/1234", r.URL.RawQuery)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"status_id":5,"elapsed":"4s"}`, string(body))

		_, _ = w.Write([]byte(`{"id":501,"status_id":5}`))
	}))
	defer server.Close()

	t.Setenv("TESTRAIL_URL", server.URL)
	t.Setenv("TESTRAIL_USER", "ci@example.com")
	t.Setenv("TESTRAIL_API_KEY", "key")

	// When
	out, err := runApp(t, "e2e-results", "post-result", "--run-id", "7", "--case-id", "1234", `{"status_id":5,"elapsed":"4s"}`)

	// Then
	require.NoError(t, err)
	assert.Equal(t, `{"id":501,"status_id":5}`+"\n", out)
}

func Test_GivenNoCredentials_WhenFetchingResults_ThenFails(t *testing.T) {
	// Given
	t.Setenv("TESTRAIL_URL", "")
	t.Setenv("TESTRAIL_USER", "")
	t.Setenv("TESTRAIL_API_KEY", "")

	// When
	_, err := runApp(t, "e2e-results", "fetch-results", "--run-id", "7", "--case-id", "1234")

	// Then
	require.Error(t, err)
}

func Test_GivenMissingRunID_WhenFetchingResults_ThenFails(t *testing.T) {
	_, err := runApp(t, "e2e-results", "fetch-results", "--case-id", "1234")
	require.Error(t, err)
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp(log.NewLogger(), &out)
	err := app.Run(args)

	return out.String(), err
}

func Test_GivenJUnitFiles_WhenExportingJUnit_ThenCreatesTheTestBundle(t *testing.T) {
	// Given
	reportPath := filepath.Join(t.TempDir(), "results.xml")
	require.NoError(t, os.WriteFile(reportPath, []byte(`<testsuites name="Login"></testsuites>`), 0644))
	deployDir := t.TempDir()

	// When
	_, err := runApp(t, "e2e-results", "export-junit", "--test-deploy-dir", deployDir, "Login: chrome", reportPath)

	// Then
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(deployDir, "Login- chrome", "results.xml"))
	assert.FileExists(t, filepath.Join(deployDir, "Login- chrome", "test-info.json"))
}
