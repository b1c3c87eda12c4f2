package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/junit"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/testaddon"
	"github.com/Dhanbad94/ai-tms-playwright-e2e-tests/testrail"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/urfave/cli/v2"
)

const (
	runIDFlag         = "run-id"
	caseIDFlag        = "case-id"
	testDeployDirFlag = "test-deploy-dir"
)

func runAndCaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     runIDFlag,
			Usage:    "TestRail run id",
			Required: true,
		},
		&cli.IntFlag{
			Name:     caseIDFlag,
			Usage:    "TestRail case id",
			Required: true,
		},
	}
}

func subcommands(logger log.Logger) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "add-result",
			Usage:     "Print a passed result payload",
			ArgsUsage: "<browserID> <env> <tag> <elapsed>",
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 4); err != nil {
					return err
				}

				args := c.Args()
				result, err := testrail.NewResult(args.Get(0), args.Get(1), args.Get(2), args.Get(3))
				if err != nil {
					return err
				}
				return printJSON(c, result)
			},
		},
		{
			Name:      "add-comment",
			Usage:     "Set the comment of a result payload",
			ArgsUsage: "<resultJSON> <comment>",
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 2); err != nil {
					return err
				}

				record, err := testrail.ParseRecord([]byte(c.Args().Get(0)))
				if err != nil {
					return err
				}
				record, err = testrail.AddComment(record, c.Args().Get(1))
				if err != nil {
					return err
				}
				return printJSON(c, record)
			},
		},
		{
			Name:      "update-status",
			Usage:     "Mark a result payload as failed",
			ArgsUsage: "<resultJSON>",
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 1); err != nil {
					return err
				}

				record, err := testrail.ParseRecord([]byte(c.Args().Get(0)))
				if err != nil {
					return err
				}
				return printJSON(c, testrail.MarkFailed(record))
			},
		},
		{
			Name:      "get-results",
			Usage:     "Print the results list of a get_results_for_case response",
			ArgsUsage: "<responseJSON>",
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 1); err != nil {
					return err
				}

				records, err := testrail.ResultsFromResponse([]byte(c.Args().Get(0)))
				if err != nil {
					return err
				}
				return printJSON(c, records)
			},
		},
		{
			Name:      "filter-results",
			Usage:     "Keep the results created after the given unix timestamp",
			ArgsUsage: "<resultsJSON> <startTimestamp>",
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 2); err != nil {
					return err
				}

				records, err := testrail.ParseRecords([]byte(c.Args().Get(0)))
				if err != nil {
					return err
				}
				start, err := strconv.ParseInt(c.Args().Get(1), 10, 64)
				if err != nil {
					return fmt.Errorf("invalid start timestamp (%s): %w", c.Args().Get(1), err)
				}

				return printJSON(c, testrail.FilterResults(records, start, time.Local))
			},
		},
		{
			Name:      "elapsed-time",
			Usage:     "Print the run time of a JUnit report as TestRail elapsed time",
			ArgsUsage: "<junitXML>",
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 1); err != nil {
					return err
				}

				elapsed, err := junit.ElapsedFromXML([]byte(c.Args().Get(0)))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(c.App.Writer, elapsed)
				return err
			},
		},
		{
			Name:      "process-xml",
			Usage:     "Rename the suites of a JUnit report file in place",
			ArgsUsage: "<file> <feature>",
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 2); err != nil {
					return err
				}

				pth := c.Args().Get(0)
				if err := junit.NewNormalizer(fileutil.NewFileManager()).NormalizeFile(pth, c.Args().Get(1)); err != nil {
					return err
				}
				logger.Donef("Updated %s", pth)
				return nil
			},
		},
		{
			Name:      "export-junit",
			Usage:     "Publish JUnit reports as one test run in the test reports directory",
			ArgsUsage: "<bundleName> <file>...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     testDeployDirFlag,
					Usage:    "test reports directory",
					EnvVars:  []string{"BITRISE_TEST_DEPLOY_DIR"},
					Required: true,
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					return fmt.Errorf("%s expects at least 2 arguments: %s", c.Command.Name, c.Command.ArgsUsage)
				}

				exporter := testaddon.NewExporter(logger, fileutil.NewFileManager())
				bundleDir, err := exporter.CopyAndSaveMetadata(testaddon.ReportBundle{
					ReportPaths:     c.Args().Tail(),
					TargetAddonPath: c.String(testDeployDirFlag),
					BundleName:      c.Args().First(),
				})
				if err != nil {
					return fmt.Errorf("failed to export test reports: %w", err)
				}
				logger.Donef("Test reports exported to %s", bundleDir)
				return nil
			},
		},
		{
			Name:      "post-result",
			Usage:     "Add a result to a case of a TestRail run",
			ArgsUsage: "<resultJSON>",
			Flags:     runAndCaseFlags(),
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 1); err != nil {
					return err
				}

				record, err := testrail.ParseRecord([]byte(c.Args().Get(0)))
				if err != nil {
					return err
				}
				client, err := newTestRailClient(logger)
				if err != nil {
					return err
				}

				stored, err := client.AddResultForCase(c.Context, c.Int(runIDFlag), c.Int(caseIDFlag), record)
				if err != nil {
					return fmt.Errorf("failed to post result: %w", err)
				}
				return printJSON(c, stored)
			},
		},
		{
			Name:  "fetch-results",
			Usage: "Print the results of a case of a TestRail run",
			Flags: runAndCaseFlags(),
			Action: func(c *cli.Context) error {
				client, err := newTestRailClient(logger)
				if err != nil {
					return err
				}

				records, err := client.GetResultsForCase(c.Context, c.Int(runIDFlag), c.Int(caseIDFlag))
				if err != nil {
					return fmt.Errorf("failed to fetch results: %w", err)
				}
				return printJSON(c, records)
			},
		},
	}
}

func newTestRailClient(logger log.Logger) (testrail.Client, error) {
	var credentials testrail.Credentials
	if err := stepconf.NewInputParser(env.NewRepository()).Parse(&credentials); err != nil {
		return nil, fmt.Errorf("invalid TestRail credentials: %w", err)
	}
	return testrail.NewClient(logger, credentials), nil
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("%s expects %d arguments: %s", c.Command.Name, n, c.Command.ArgsUsage)
	}
	return nil
}

func printJSON(c *cli.Context, v interface{}) error {
	out, err := testrail.Compact(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, out)
	return err
}
