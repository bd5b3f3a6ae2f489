// Command tally counts a CSV ballot file under one or more methods and prints
// the preference schedule with each result.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/okian/rankvote/internal/adapters/report"
	"github.com/okian/rankvote/internal/adapters/source"
	app "github.com/okian/rankvote/internal/app"
	"github.com/okian/rankvote/internal/domain/tally"
	"github.com/okian/rankvote/pkg/logger"
)

// Exit codes.
const (
	exitOK            = 0
	exitInput         = 1
	exitUnknownMethod = 2
)

type cli struct {
	File     string   `arg:"" help:"CSV ballot file: a candidate row followed by one row per ballot."`
	Method   []string `short:"m" help:"Methods to run (plurality, borda, pairwise, elimination, runoff). Defaults to plurality, borda and pairwise."`
	Lenient  bool     `help:"Accept ballots that rank a candidate more than once."`
	LogLevel string   `default:"warn" enum:"debug,info,warn,error" help:"Log level for diagnostics on stderr."`

	MaxCandidates int `default:"0" help:"Reject files declaring more candidates than this (0 for no limit)."`
	MaxBallots    int `default:"0" help:"Reject files holding more ballots than this (0 for no limit)."`
}

func (c *cli) Run(ctx context.Context, stdout io.Writer) error {
	election, err := source.ReadFile(c.File)
	if err != nil {
		return err
	}
	svc := app.New(
		app.WithLogger(logger.Named("tally")),
		app.WithStrictRankings(!c.Lenient),
		app.WithLimits(c.MaxCandidates, c.MaxBallots),
	)
	out, err := svc.Run(ctx, app.Request{
		Candidates: election.Candidates,
		Ballots:    election.Ballots,
		Methods:    c.Method,
	})
	if err != nil {
		return err
	}
	return report.Render(stdout, out)
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		flags  cli
		exited bool
		code   int
	)
	parser, err := kong.New(&flags,
		kong.Name("tally"),
		kong.Description("Count ranked ballots."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { exited, code = true, c }),
		kong.UsageOnError(),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return exitInput
	}
	_, err = parser.Parse(args)
	if exited {
		return code
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return exitInput
	}

	if err := logger.InitWithWriter(stderr, logger.FormatText); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return exitInput
	}
	_ = logger.SetLevelString(flags.LogLevel)

	if err := flags.Run(context.Background(), stdout); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		if errors.Is(err, tally.ErrUnknownMethod) {
			return exitUnknownMethod
		}
		return exitInput
	}
	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
