package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunID(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{fileName: "chrome-parallel-7.json", want: "7"},
		{fileName: "/dist/reports/edge-sequential-1234.json", want: "1234"},
		{fileName: "firefox.json", want: "firefox"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			assert.Equal(t, tt.want, RunID(tt.fileName))
		})
	}
}

func TestCombinedName(t *testing.T) {
	assert.Equal(t, "chrome-combined-7.json", CombinedName("chrome-parallel-7.json"))
}

func TestFindFirst(t *testing.T) {
	names := []string{"chrome-parallel-1.json", "chrome-parallel-2.json", "edge-sequential-1.json"}

	assert.Equal(t, 0, FindFirst(names, ParallelMarker("chrome")))
	assert.Equal(t, 2, FindFirst(names, SequentialMarker("edge", "1")))
	assert.Equal(t, -1, FindFirst(names, SequentialMarker("chrome", "1")))
}
