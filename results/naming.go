package results

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Shard files are named <browser>-<parallel|sequential>-<runNumber>.json by the test runner.

// RunID returns the run number part of a shard file name: the text after the last '-' of the name without extension.
func RunID(fileName string) string {
	base := filepath.Base(fileName)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return name[strings.LastIndex(name, "-")+1:]
}

// ParallelMarker ...
func ParallelMarker(browser string) string {
	return fmt.Sprintf("%s-%s", browser, TestTypeParallel)
}

// SequentialMarker ...
func SequentialMarker(browser, runID string) string {
	return fmt.Sprintf("%s-%s-%s", browser, TestTypeSequential, runID)
}

// CombinedName is the name a merged parallel shard file is renamed to.
func CombinedName(parallelFileName string) string {
	return strings.Replace(parallelFileName, string(TestTypeParallel), "combined", 1)
}

// FindFirst returns the index of the first name containing marker, or -1.
func FindFirst(names []string, marker string) int {
	for i, name := range names {
		if strings.Contains(name, marker) {
			return i
		}
	}
	return -1
}
