package results

import "encoding/json"

// Merge combines the parallel and the sequential shard of the same browser and run.
// Counts are summed, failure details are concatenated (parallel first) and every other field comes from the parallel shard.
func Merge(parallel, sequential ShardResult) ShardResult {
	merged := parallel
	merged.TestType = TestTypeParallelSequential
	merged.Ran += sequential.Ran
	merged.Passed += sequential.Passed
	merged.Failed += sequential.Failed

	details := make([]json.RawMessage, 0, len(parallel.FailedTestsDetails)+len(sequential.FailedTestsDetails))
	details = append(details, parallel.FailedTestsDetails...)
	details = append(details, sequential.FailedTestsDetails...)
	merged.FailedTestsDetails = details

	if parallel.Extra != nil {
		merged.Extra = make(map[string]json.RawMessage, len(parallel.Extra))
		for key, value := range parallel.Extra {
			merged.Extra[key] = value
		}
	}

	return merged
}

// Totals ...
type Totals struct {
	Ran    int
	Passed int
	Failed int
}

// Total sums the test counts of the given entries.
func Total(entries []ShardResult) Totals {
	var totals Totals
	for _, entry := range entries {
		totals.Ran += entry.Ran
		totals.Passed += entry.Passed
		totals.Failed += entry.Failed
	}
	return totals
}
