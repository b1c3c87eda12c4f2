package step

import (
	"fmt"
	"os"
	"time"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/concatenate"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/output"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/results"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/summary"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
)

// Input ...
type Input struct {
	ReportDir      string `env:"E2E_REPORT_DIR,required"`
	BrowsersConfig string `env:"E2E_BROWSERS_CONFIG,required"`
	DeployDir      string `env:"E2E_DEPLOY_DIR"`
	ExportOutputs  bool   `env:"E2E_EXPORT_OUTPUTS,opt[yes,no]"`
	Verbose        bool   `env:"E2E_VERBOSE,opt[yes,no]"`
}

// inputDefaults are the values of the inputs not set in the environment.
var inputDefaults = map[string]string{
	"E2E_REPORT_DIR":      "dist/reports",
	"E2E_BROWSERS_CONFIG": "config/browsers.json",
	"E2E_EXPORT_OUTPUTS":  "no",
	"E2E_VERBOSE":         "no",
}

type inputRepository struct {
	env.Repository
}

// NewInputRepository returns an env.Repository falling back to the input defaults for unset inputs.
func NewInputRepository(envRepository env.Repository) env.Repository {
	return inputRepository{Repository: envRepository}
}

func (r inputRepository) Get(key string) string {
	if value := r.Repository.Get(key); value != "" {
		return value
	}
	return inputDefaults[key]
}

// Config ...
type Config struct {
	ReportDir          string
	BrowsersConfigPath string
	DeployDir          string
	ExportOutputs      bool
}

// PathModifier ...
type PathModifier interface {
	AbsPath(pth string) (string, error)
}

// PathChecker ...
type PathChecker interface {
	IsDirExists(pth string) (bool, error)
}

// ConfigParser ...
type ConfigParser struct {
	inputParser  stepconf.InputParser
	logger       log.Logger
	pathModifier PathModifier
	pathChecker  PathChecker
}

// NewConfigParser ...
func NewConfigParser(inputParser stepconf.InputParser, logger log.Logger, pathModifier PathModifier, pathChecker PathChecker) ConfigParser {
	return ConfigParser{
		inputParser:  inputParser,
		logger:       logger,
		pathModifier: pathModifier,
		pathChecker:  pathChecker,
	}
}

// ProcessConfig reads the inputs from the environment.
// Relative paths are resolved against the working directory.
func (p ConfigParser) ProcessConfig() (Config, error) {
	var input Input
	if err := p.inputParser.Parse(&input); err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	p.logger.Println()

	if input.Verbose {
		p.logger.EnableDebugLog(true)
	}

	reportDir, err := p.pathModifier.AbsPath(input.ReportDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute report directory path: %w", err)
	}
	if err := p.requireDir(reportDir); err != nil {
		return Config{}, fmt.Errorf("invalid report directory: %w", err)
	}

	browsersConfig, err := p.pathModifier.AbsPath(input.BrowsersConfig)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute browsers config path: %w", err)
	}

	var deployDir string
	if input.DeployDir != "" {
		deployDir, err = p.pathModifier.AbsPath(input.DeployDir)
		if err != nil {
			return Config{}, fmt.Errorf("failed to get absolute deploy directory path: %w", err)
		}
		if err := p.requireDir(deployDir); err != nil {
			return Config{}, fmt.Errorf("invalid deploy directory: %w", err)
		}
	}

	return Config{
		ReportDir:          reportDir,
		BrowsersConfigPath: browsersConfig,
		DeployDir:          deployDir,
		ExportOutputs:      input.ExportOutputs,
	}, nil
}

func (p ConfigParser) requireDir(pth string) error {
	exists, err := p.pathChecker.IsDirExists(pth)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("directory does not exist: %s", pth)
	}
	return nil
}

// Result ...
type Result struct {
	Summary concatenate.Summary
	Totals  results.Totals
}

// ResultsStep ...
type ResultsStep struct {
	logger         log.Logger
	concatenator   concatenate.Concatenator
	outputExporter output.Exporter
}

// NewResultsStep ...
func NewResultsStep(logger log.Logger, concatenator concatenate.Concatenator, outputExporter output.Exporter) ResultsStep {
	return ResultsStep{
		logger:         logger,
		concatenator:   concatenator,
		outputExporter: outputExporter,
	}
}

// Run ...
func (s ResultsStep) Run(cfg Config) (Result, error) {
	s.logger.Infof("Concatenating test results in %s", cfg.ReportDir)

	sum, err := s.concatenator.Concatenate(concatenate.Params{
		ReportDir:          cfg.ReportDir,
		BrowsersConfigPath: cfg.BrowsersConfigPath,
		Timestamp:          time.Now(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to concatenate test results: %w", err)
	}

	if sum.MergedPairs > 0 {
		s.logger.Printf("Merged %d parallel/sequential pairs", sum.MergedPairs)
	}

	s.logger.Println()
	summary.WriteTable(os.Stdout, sum.Entries)
	s.logger.Println()

	return Result{
		Summary: sum,
		Totals:  results.Total(sum.Entries),
	}, nil
}

// Export ...
func (s ResultsStep) Export(cfg Config, result Result) error {
	if !cfg.ExportOutputs {
		s.logger.Debugf("Output export is disabled")
		return nil
	}

	s.logger.Infof("Exporting outputs")

	s.outputExporter.ExportTestRunResult(result.Totals.Failed > 0)
	s.outputExporter.ExportFailedTestCount(result.Totals.Failed)

	if err := s.outputExporter.ExportSummaryFiles(cfg.DeployDir, result.Summary.JSONPath, result.Summary.TextPath); err != nil {
		return err
	}

	s.logger.Donef("Outputs exported")

	return nil
}
