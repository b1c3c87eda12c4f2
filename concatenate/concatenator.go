package concatenate

import (
	"time"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/config"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/reportdir"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/results"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/summary"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

// Params ...
type Params struct {
	ReportDir          string
	BrowsersConfigPath string
	Timestamp          time.Time
}

// Summary describes the files one concatenation produced.
type Summary struct {
	JSONPath    string
	TextPath    string
	Entries     []results.ShardResult
	MergedPairs int
	SingleFile  bool
}

// Concatenator combines the shard files of a finished CI run into one JSON and one text summary.
type Concatenator interface {
	Concatenate(params Params) (Summary, error)
}

type concatenator struct {
	logger         log.Logger
	fileManager    fileutil.FileManager
	pathChecker    pathutil.PathChecker
	browsersLoader config.BrowsersLoader
}

// NewConcatenator ...
func NewConcatenator(logger log.Logger, fileManager fileutil.FileManager, pathChecker pathutil.PathChecker, browsersLoader config.BrowsersLoader) Concatenator {
	return &concatenator{
		logger:         logger,
		fileManager:    fileManager,
		pathChecker:    pathChecker,
		browsersLoader: browsersLoader,
	}
}

// Concatenate assumes it owns the results directory until it returns.
// Shard files are consumed: when it succeeds only the two summary files are left from this run.
func (c concatenator) Concatenate(params Params) (Summary, error) {
	store := reportdir.NewStore(params.ReportDir, c.fileManager, c.pathChecker)
	jsonName := summary.JSONName(params.Timestamp)
	textName := summary.TextName(params.Timestamp)

	names, err := store.ListJSON()
	if err != nil {
		return Summary{}, err
	}

	if len(names) == 1 {
		return c.summarizeSingleFile(store, names[0], jsonName, textName)
	}

	c.logger.Infof("Combining %d result files", len(names))

	browsers, err := c.browsersLoader.Load(params.BrowsersConfigPath)
	if err != nil {
		return Summary{}, err
	}

	pairer := NewPairer(c.logger, store)
	mergedPairs := 0
	for _, browser := range browsers {
		merged, err := pairer.Pair(browser)
		if err != nil {
			return Summary{}, err
		}
		if merged {
			mergedPairs++
		}
	}

	entries, err := NewAggregator(c.logger, store).Aggregate()
	if err != nil {
		return Summary{}, err
	}

	if err := store.Write(jsonName, entries); err != nil {
		return Summary{}, err
	}

	if err := c.writeText(store, textName, entries); err != nil {
		return Summary{}, err
	}

	c.logger.Donef("Overall summary written to %s", store.Path(jsonName))

	return Summary{
		JSONPath:    store.Path(jsonName),
		TextPath:    store.Path(textName),
		Entries:     entries,
		MergedPairs: mergedPairs,
	}, nil
}

// summarizeSingleFile handles a run that produced one shard: nothing to pair or aggregate,
// the shard itself becomes the summary.
func (c concatenator) summarizeSingleFile(store reportdir.Store, name, jsonName, textName string) (Summary, error) {
	c.logger.Infof("Single result file found (%s)", name)

	entries, err := store.Read(name)
	if err != nil {
		return Summary{}, err
	}

	if err := c.writeText(store, textName, entries); err != nil {
		return Summary{}, err
	}

	if err := store.Rename(name, jsonName); err != nil {
		return Summary{}, err
	}

	c.logger.Donef("Overall summary written to %s", store.Path(jsonName))

	return Summary{
		JSONPath:   store.Path(jsonName),
		TextPath:   store.Path(textName),
		Entries:    entries,
		SingleFile: true,
	}, nil
}

func (c concatenator) writeText(store reportdir.Store, textName string, entries []results.ShardResult) error {
	text, err := summary.RenderText(entries)
	if err != nil {
		return err
	}
	return store.WriteText(textName, text)
}
