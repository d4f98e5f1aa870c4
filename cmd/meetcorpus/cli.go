package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/meetcorpus/internal/errors"
	"github.com/hpungsan/meetcorpus/internal/fetch"
	"github.com/hpungsan/meetcorpus/internal/meeting"
	"github.com/hpungsan/meetcorpus/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
// env may be nil when only help or version output is needed.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "meetcorpus",
		Usage:   "Turn a meeting directory into an NER training corpus",
		Version: Version,
		Commands: []*cli.Command{
			exportCmd(env),
			describeCmd(),
			runsCmd(env),
			runCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// exportCmd creates the export command.
func exportCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Fetch all meetings and write the corpus views",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Output directory (default: config output_dir or ~/.meetcorpus/exports)"},
			&cli.StringFlag{Name: "prefix", Aliases: []string{"p"}, Usage: "File name stem (default: meetingData)"},
			&cli.StringFlag{Name: "server", Aliases: []string{"s"}, Usage: "Meeting directory entrypoint URL"},
			&cli.BoolFlag{Name: "workbook", Usage: "Also write an .xlsx workbook"},
		},
		Action: func(c *cli.Context) error {
			runEnv := *env
			if server := c.String("server"); server != "" {
				runEnv.Searcher = fetch.NewClient(server, fetch.WithLogger(env.Logger))
			}
			if c.Bool("workbook") && env.Config != nil {
				cfg := *env.Config
				cfg.Workbook = true
				runEnv.Config = &cfg
			}

			output, err := ops.Export(c.Context, &runEnv, ops.ExportInput{
				Dir:    c.String("dir"),
				Prefix: c.String("prefix"),
			})
			if err != nil {
				// Partial runs still report what was written.
				if output != nil {
					_ = outputJSON(output)
				}
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// describeCmd creates the describe command.
func describeCmd() *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "Generate descriptions and token/label pairs for records (JSON file or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "JSON file with a record or an array of records"},
			&cli.BoolFlag{Name: "html", Usage: "Print the descriptions as an HTML fragment instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			var (
				records []meeting.Record
				err     error
			)
			switch {
			case c.String("file") != "":
				records, err = ops.LoadRecords(c.String("file"))
			case stdinHasData():
				records, err = ops.DecodeRecords(os.Stdin)
			default:
				err = errors.NewInvalidRequest("records must be given with --file or piped via stdin")
			}
			if err != nil {
				return outputError(err)
			}

			items, err := ops.Describe(records)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("html") {
				html, err := ops.RenderHTML(items)
				if err != nil {
					return outputError(err)
				}
				_, err = fmt.Fprint(os.Stdout, html)
				return err
			}

			return outputJSON(items)
		},
	}
}

// runsCmd creates the runs command.
func runsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List export runs, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum runs to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Number of runs to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListRuns(c.Context, env.DB, ops.ListRunsInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// runCmd creates the run command.
func runCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Show one export run with its files",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.GetRun(c.Context, env.DB, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var cErr *errors.CorpusError
	if stderrors.As(err, &cErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
