package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/concatenate"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/config"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/output"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/step"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/kballard/go-shellquote"
	"github.com/urfave/cli/v2"
)

const dotEnvPath = ".env"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	logger := log.NewLogger()

	app := newApp(logger, os.Stdout)
	if err := app.Run(args); err != nil {
		logger.Errorf("%s", err)
		return 1
	}

	return 0
}

func newApp(logger log.Logger, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "e2e-results",
		Usage:     "Combine end-to-end test shard results and report them to TestRail",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print debug logs",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logger.EnableDebugLog(true)
			}
			logger.Debugf("$ %s", shellquote.Join(append([]string{c.App.Name}, c.Args().Slice()...)...))

			return config.LoadDotEnv(dotEnvPath)
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return fmt.Errorf("unknown command: %s", c.Args().First())
			}
			return concatenateResults(logger)
		},
		Commands: subcommands(logger),
	}
}

// concatenateResults runs the results step: configuration comes from the environment.
func concatenateResults(logger log.Logger) error {
	envRepository := env.NewRepository()
	inputParser := stepconf.NewInputParser(step.NewInputRepository(envRepository))
	pathChecker := pathutil.NewPathChecker()
	configParser := step.NewConfigParser(inputParser, logger, pathutil.NewPathModifier(), pathChecker)

	fileManager := fileutil.NewFileManager()
	concatenator := concatenate.NewConcatenator(logger, fileManager, pathChecker, config.NewBrowsersLoader())
	envmanExporter := export.NewExporter(command.NewFactory(envRepository), fileManager)
	outputExporter := output.NewExporter(logger, &envmanExporter)
	resultsStep := step.NewResultsStep(logger, concatenator, outputExporter)

	cfg, err := configParser.ProcessConfig()
	if err != nil {
		return err
	}

	result, err := resultsStep.Run(cfg)
	if err != nil {
		return err
	}

	return resultsStep.Export(cfg, result)
}
