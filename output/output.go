package output

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/bitrise-io/go-utils/v2/log"
)

// Exported output keys.
const (
	TestResultKey      = "E2E_TEST_RESULT"
	FailedTestCountKey = "E2E_FAILED_TEST_COUNT"
	SummaryJSONPathKey = "E2E_SUMMARY_JSON_PATH"
	SummaryTextPathKey = "E2E_SUMMARY_TXT_PATH"
)

// OutputExporter is the subset of the envman based exporter used here.
type OutputExporter interface {
	ExportOutput(key, value string) error
	ExportOutputFile(key, sourcePath, destinationPath string) error
}

// Exporter ...
type Exporter interface {
	ExportTestRunResult(failed bool)
	ExportFailedTestCount(count int)
	ExportSummaryFiles(deployDir, jsonPath, textPath string) error
}

type exporter struct {
	logger         log.Logger
	outputExporter OutputExporter
}

// NewExporter ...
func NewExporter(logger log.Logger, outputExporter OutputExporter) Exporter {
	return &exporter{
		logger:         logger,
		outputExporter: outputExporter,
	}
}

func (e exporter) ExportTestRunResult(failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.outputExporter.ExportOutput(TestResultKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", TestResultKey, err)
	}
}

func (e exporter) ExportFailedTestCount(count int) {
	if err := e.outputExporter.ExportOutput(FailedTestCountKey, strconv.Itoa(count)); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", FailedTestCountKey, err)
	}
}

// ExportSummaryFiles exports the summary paths. With a deploy dir the files are copied there first.
func (e exporter) ExportSummaryFiles(deployDir, jsonPath, textPath string) error {
	files := []struct {
		key string
		pth string
	}{
		{key: SummaryJSONPathKey, pth: jsonPath},
		{key: SummaryTextPathKey, pth: textPath},
	}

	for _, file := range files {
		if deployDir == "" {
			if err := e.outputExporter.ExportOutput(file.key, file.pth); err != nil {
				return fmt.Errorf("failed to export %s: %w", file.key, err)
			}
			continue
		}

		deployPth := filepath.Join(deployDir, filepath.Base(file.pth))
		if err := e.outputExporter.ExportOutputFile(file.key, file.pth, deployPth); err != nil {
			return fmt.Errorf("failed to export %s from (%s) to (%s): %w", file.key, file.pth, deployPth, err)
		}
	}

	return nil
}
