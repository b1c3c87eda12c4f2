package concatenate

import (
	"fmt"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/reportdir"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/results"
	"github.com/bitrise-io/go-utils/v2/log"
)

// Aggregator folds every shard file left in the results directory into one list.
type Aggregator interface {
	Aggregate() ([]results.ShardResult, error)
}

type aggregator struct {
	logger log.Logger
	store  reportdir.Store
}

// NewAggregator ...
func NewAggregator(logger log.Logger, store reportdir.Store) Aggregator {
	return &aggregator{
		logger: logger,
		store:  store,
	}
}

// Aggregate takes the first entry of every .json file in listing order and removes the file right after reading it.
func (a aggregator) Aggregate() ([]results.ShardResult, error) {
	names, err := a.store.ListJSON()
	if err != nil {
		return nil, err
	}

	overall := make([]results.ShardResult, 0, len(names))
	for _, name := range names {
		entries, err := a.store.Read(name)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("shard file (%s) contains no results", name)
		}

		overall = append(overall, entries[0])

		if err := a.store.Remove(name); err != nil {
			return nil, err
		}
		a.logger.Debugf("Consumed %s", name)
	}

	return overall, nil
}
