package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/prpulse/internal/adapter/driven/github"
	"github.com/ericfisherdev/prpulse/internal/application"
	"github.com/ericfisherdev/prpulse/internal/config"
	"github.com/ericfisherdev/prpulse/internal/domain/model"
	"github.com/ericfisherdev/prpulse/internal/report"
)

const version = "0.1.0"

const (
	defaultSampleSize = 100
	maxSampleSize     = defaultSampleSize
	minSampleSize     = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// newCommand builds the CLI surface: flags, usage texts and the action that
// drives an analysis run.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "prpulse",
		Usage:   "measure the health of a repository through its pull requests",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Aliases:  []string{"O"},
				Usage:    "the owner of the repository under scrutiny",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "repository",
				Aliases:  []string{"R"},
				Usage:    "the repository under scrutiny",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "sample-size",
				Aliases: []string{"S"},
				Usage:   "the amount of PRs fetched as sample for the analysis (unless a specific PR number is selected as individual target)",
				Value:   defaultSampleSize,
			},
			&cli.IntFlag{
				Name:    "pr-number",
				Aliases: []string{"P"},
				Usage:   "a specific pull request to be selected as target for the analysis",
			},
			&cli.StringFlag{
				Name:    "github-token",
				Aliases: []string{"G"},
				Usage:   "the personal access token under which to perform the analysis (falls back to GITHUB_TOKEN)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"L"},
				Usage:   "logging verbosity: debug, info, warn, error or off",
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:    "include-merge-prs",
				Aliases: []string{"m"},
				Usage:   "keep merge PRs in repository analysis (excluded by default; ignored for single-PR analysis)",
			},
			&cli.BoolFlag{
				Name:    "silent",
				Aliases: []string{"s"},
				Usage:   "print nothing but the analysis result, useful for piping; activated automatically when output is piped",
			},
			&cli.BoolFlag{
				Name:    "print-legends",
				Aliases: []string{"l"},
				Usage:   "print the metrics' legends before the analysis result",
			},
			&cli.StringFlag{
				Name:  "html-report",
				Usage: "additionally write an HTML rendition of the analysis to this path",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	// 1. Load environment configuration and merge it with CLI flags. The
	// token flag wins over the environment; one of the two must be set.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	token := cmd.String("github-token")
	if token == "" {
		token = cfg.GitHubToken
	}
	if token == "" {
		return errors.New("a github token is required: pass --github-token or set GITHUB_TOKEN")
	}

	if cmd.IsSet("pr-number") && cmd.IsSet("sample-size") {
		return errors.New("--pr-number and --sample-size are mutually exclusive: select either a sample or an individual PR")
	}

	sampleSize := cmd.Int("sample-size")
	if sampleSize < minSampleSize || sampleSize > maxSampleSize {
		return fmt.Errorf("sample-size must be between %d and %d, got %d", minSampleSize, maxSampleSize, sampleSize)
	}

	owner := cmd.String("owner")
	repoName := cmd.String("repository")

	// 2. Detect whether stdout is user attended. Piping into a file or
	// another process activates silent mode so only the result JSON travels
	// through the pipe.
	silent := cmd.Bool("silent") || !term.IsTerminal(int(os.Stdout.Fd()))

	// 3. Initialize logging. Silent mode and level "off" discard everything.
	if err := setupLogging(cmd.String("log-level"), silent); err != nil {
		return err
	}

	// 4. Greet attended runs with the banner and the analysis parameters.
	if !silent {
		printBanner(owner, repoName, cmd)
	}

	// 5. Build the pooled GitHub client. Operation cannot continue without it.
	pool, err := githubadapter.NewClientPool(token, cfg.APIURL, cfg.PoolSize, cfg.AcquireTimeout)
	if err != nil {
		return err
	}

	// 6. Resolve the target repository, trying the owner first as an
	// organization and then as an individual user.
	handle, err := application.NewResolver(pool).Resolve(ctx, owner, repoName)
	if err != nil {
		return err
	}

	// 7. Retrieve and score the selected target.
	analyzer := application.NewAnalyzer(pool, handle)

	var (
		score   model.Score
		prTitle string
		prBody  string
	)
	if cmd.IsSet("pr-number") {
		outcome := analyzer.RetrieveOne(ctx, cmd.Int("pr-number"))
		if outcome.Err != nil {
			return outcome.Err
		}
		score = outcome.Bundle.Score()
		prTitle = outcome.Bundle.Title
		prBody = outcome.Bundle.Body
	} else {
		score, err = analyzeRepository(ctx, analyzer, sampleSize, cmd.Bool("include-merge-prs"))
		if err != nil {
			return err
		}
	}

	// 8. Legends precede the score, when asked for and attended.
	if cmd.Bool("print-legends") && !silent {
		pterm.Println(model.Legends())
		pterm.Println(separator())
	}

	// 9. The score always goes to stdout, silent or not, so results can be
	// piped to a file.
	doc, err := score.JSON()
	if err != nil {
		return err
	}
	fmt.Println(doc)

	// 10. Optionally render the HTML report next to the JSON output.
	if path := cmd.String("html-report"); path != "" {
		if err := report.WriteFile(path, report.Build(handle.FullName, score, prTitle, prBody)); err != nil {
			return err
		}
		slog.Info("html report written", "path", path)
	}

	return nil
}

// analyzeRepository retrieves a sample of closed pull requests and scores
// the ones that survived retrieval and the merge-PR filter.
func analyzeRepository(ctx context.Context, analyzer *application.Analyzer, sampleSize int, includeMergePRs bool) (model.Score, error) {
	outcomes, err := analyzer.RetrieveSample(ctx, sampleSize)
	if err != nil {
		return model.Score{}, err
	}

	sample := outcomes.Sample()
	kept := make(model.Sample, 0, len(sample))
	for _, bundle := range sample {
		if !includeMergePRs && bundle.IsMergePR() {
			slog.Debug("filtered out for being a merge PR", "repo", bundle.Repo, "pr", bundle.Number)
			continue
		}
		kept = append(kept, bundle)
	}

	if len(kept) == 0 {
		return model.Score{}, errors.New("no pull requests survived retrieval and filtering; nothing to score")
	}

	return kept.Score(), nil
}

// setupLogging installs the process-wide slog handler at the selected level.
func setupLogging(level string, silent bool) error {
	if silent || strings.EqualFold(level, "off") {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil
	}

	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q (expected debug, info, warn, error or off)", level)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func printBanner(owner, repo string, cmd *cli.Command) {
	pterm.DefaultBox.WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Println(fmt.Sprintf("prpulse %s\npull request quality metrics", version))

	pterm.Info.Printf("Initializing analysis for [%s].\n", owner)
	pterm.Info.Printf("Target is [%s].\n", repo)

	if cmd.IsSet("pr-number") {
		pterm.Info.Printf("Selected PR number is [%d].\n", cmd.Int("pr-number"))
	} else {
		pterm.Info.Printf("Using a sample size of [%d] PRs per repository.\n", cmd.Int("sample-size"))
	}

	pterm.Println(separator())
}

// separator spans the full terminal width, falling back to 80 columns when
// the width cannot be determined.
func separator() string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return strings.Repeat("=", width)
}
