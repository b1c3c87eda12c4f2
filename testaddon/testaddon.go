package testaddon

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
)

const metadataFileName = "test-info.json"

// ReportBundle describes one set of JUnit reports shown as a single test run on the build page.
type ReportBundle struct {
	ReportPaths     []string
	TargetAddonPath string
	BundleName      string
}

// Exporter ...
type Exporter interface {
	CopyAndSaveMetadata(bundle ReportBundle) (string, error)
}

type exporter struct {
	logger      log.Logger
	fileManager fileutil.FileManager
}

// NewExporter ...
func NewExporter(logger log.Logger, fileManager fileutil.FileManager) Exporter {
	return &exporter{
		logger:      logger,
		fileManager: fileManager,
	}
}

// CopyAndSaveMetadata copies the reports into their own directory under the test addon path
// and writes the metadata naming the run. It returns the bundle directory.
func (e exporter) CopyAndSaveMetadata(bundle ReportBundle) (string, error) {
	if len(bundle.ReportPaths) == 0 {
		return "", fmt.Errorf("no reports to export for %s", bundle.BundleName)
	}

	bundleName := ReplaceUnsupportedFilenameCharacters(bundle.BundleName)
	bundleDir := filepath.Join(bundle.TargetAddonPath, bundleName)

	// Writing the metadata creates the bundle directory.
	if err := e.saveBundleMetadata(bundleDir, bundleName); err != nil {
		return "", err
	}

	for _, pth := range bundle.ReportPaths {
		dst := filepath.Join(bundleDir, filepath.Base(pth))
		if err := e.fileManager.CopyFile(pth, dst, nil); err != nil {
			return "", fmt.Errorf("failed to copy (%s) to (%s): %w", pth, dst, err)
		}
		e.logger.Printf("- %s", dst)
	}

	return bundleDir, nil
}

func (e exporter) saveBundleMetadata(outputDir, bundleName string) error {
	type testBundle struct {
		BundleName string `json:"test-name"`
	}
	bytes, err := json.Marshal(testBundle{
		BundleName: bundleName,
	})
	if err != nil {
		return fmt.Errorf("could not encode metadata: %w", err)
	}
	if err := e.fileManager.Write(filepath.Join(outputDir, metadataFileName), string(bytes), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReplaceUnsupportedFilenameCharacters replaces '/' and ':', which can not be used in a directory name.
func ReplaceUnsupportedFilenameCharacters(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
