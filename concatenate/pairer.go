package concatenate

import (
	"fmt"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/reportdir"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/results"
	"github.com/bitrise-io/go-utils/v2/log"
)

// Pairer merges the parallel and sequential shard files of a browser's run.
type Pairer interface {
	Pair(browser string) (bool, error)
}

type pairer struct {
	logger log.Logger
	store  reportdir.Store
}

// NewPairer ...
func NewPairer(logger log.Logger, store reportdir.Store) Pairer {
	return &pairer{
		logger: logger,
		store:  store,
	}
}

// Pair looks for the first "<browser>-parallel" file and a "<browser>-sequential-<run>" file of the same run.
// When both exist the merged results replace the parallel file, which is renamed to its combined name,
// and the sequential file is removed. Only the first parallel file of a browser is considered.
func (p pairer) Pair(browser string) (bool, error) {
	names, err := p.store.ListJSON()
	if err != nil {
		return false, err
	}

	parallelIdx := results.FindFirst(names, results.ParallelMarker(browser))
	if parallelIdx < 0 {
		return false, nil
	}
	parallelName := names[parallelIdx]
	runID := results.RunID(parallelName)

	sequentialIdx := results.FindFirst(names, results.SequentialMarker(browser, runID))
	if sequentialIdx < 0 {
		p.logger.Debugf("No sequential run found for %s (run %s), keeping %s", browser, runID, parallelName)
		return false, nil
	}
	sequentialName := names[sequentialIdx]

	parallel, err := p.readFirst(parallelName)
	if err != nil {
		return false, err
	}
	sequential, err := p.readFirst(sequentialName)
	if err != nil {
		return false, err
	}

	merged := results.Merge(parallel[0], sequential[0])
	parallel[0] = merged

	if err := p.store.Write(parallelName, parallel); err != nil {
		return false, err
	}

	combinedName := results.CombinedName(parallelName)
	if err := p.store.Rename(parallelName, combinedName); err != nil {
		return false, err
	}

	if err := p.store.Remove(sequentialName); err != nil {
		return false, err
	}

	p.logger.Printf("- merged %s and %s into %s", parallelName, sequentialName, combinedName)

	return true, nil
}

func (p pairer) readFirst(name string) ([]results.ShardResult, error) {
	entries, err := p.store.Read(name)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("shard file (%s) contains no results", name)
	}
	return entries, nil
}
