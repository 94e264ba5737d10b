/*
vidir is a batch filesystem editor: it lists a directory (or the given
paths) as an editable `<id><TAB><path>` listing, opens it in the user's
editor, then reconciles whatever the user did to that listing back onto
the filesystem as renames and deletions.

Usage:

	vidir [OPTIONS] [PATH ...]

For usage options, see:

	vidir -h
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/kjeldahl/vidir/internal/config"
	"github.com/kjeldahl/vidir/internal/editorbridge"
	"github.com/kjeldahl/vidir/internal/enumerate"
	"github.com/kjeldahl/vidir/internal/listing"
	"github.com/kjeldahl/vidir/internal/reconcile"
	"github.com/kjeldahl/vidir/internal/vidirlog"
)

const application = "vidir"

var version = "<tip>"

const usage = `List the given paths (or the current directory) in a text buffer, then
apply whatever renames and deletions the edited buffer implies.

Rename files by editing their path in the buffer. Delete a file by
deleting its line. Lines may be reordered; the leading id, not the line
position, is what correlates an edit back to its original path.
`

// ignoreFlags collects repeated --ignore occurrences into a []string.
type ignoreFlags []string

func (f *ignoreFlags) String() string { return fmt.Sprint([]string(*f)) }
func (f *ignoreFlags) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %v [OPTIONS] [PATH ...]\n\n", application)
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}

	var (
		flagVerbose   = flag.Bool("v", false, "Verbose (info-level) logging.")
		flagDryRun    = flag.Bool("n", false, "Preview the reconciliation plan without touching the filesystem.")
		flagDryRunAlt = flag.Bool("dry-run", false, "Alias of -n.")
		flagClobber   = flag.Bool("f", false, "Allow renames to overwrite existing destinations.")
		flagClobberAlt = flag.Bool("clobber", false, "Alias of -f.")
		flagEditor    = flag.String("editor", "", "Override $VISUAL/$EDITOR with this command.")
		flagVersion   = flag.Bool("version", false, "Print version and exit.")
	)
	var flagIgnore ignoreFlags
	flag.Var(&flagIgnore, "ignore", "Glob pattern to exclude from the listing (repeatable).")

	fs := flag.CommandLine
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *flagVersion {
		fmt.Println(application, version)
		return 0
	}

	dryRun := *flagDryRun || *flagDryRunAlt
	clobber := *flagClobber || *flagClobberAlt

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", application, err)
		return 1
	}

	cfg, err := config.Discover(cwd)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		fmt.Fprintf(os.Stderr, "%s: config: %v\n", application, err)
		return 1
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if !clobber && cfg.Clobber {
		clobber = true
	}
	if *flagEditor == "" {
		*flagEditor = cfg.Editor
	}
	ignorePatterns := append([]string{}, cfg.Ignore...)
	ignorePatterns = append(ignorePatterns, flagIgnore...)

	verbosity := 0
	if *flagVerbose {
		verbosity = 1
	}
	if dryRun && verbosity < 1 {
		// The whole point of -n is to see the plan; don't let the default
		// warn-level threshold swallow it.
		verbosity = 1
	}
	logger := vidirlog.New(verbosity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pre, err := enumerate.Enumerate(fs.Args(), enumerate.Options{Ignore: ignorePatterns})
	if err != nil {
		logger.Error().Err(err).Msg("enumeration failed")
		return 1
	}

	tmpDir := os.TempDir()
	tmpPath, err := listing.WriteTempFile(tmpDir, pre)
	if err != nil {
		logger.Error().Err(err).Msg("writing listing failed")
		return 1
	}
	defer os.Remove(tmpPath)

	editor, err := editorbridge.ResolveWithOverride(*flagEditor)
	if err != nil {
		logger.Error().Err(err).Msg("no editor available")
		return 1
	}

	exitCode, err := editorbridge.Launch(ctx, editor, tmpPath)
	if err != nil {
		logger.Error().Err(err).Msg("launching editor failed")
		return 1
	}
	if exitCode != 0 {
		logger.Warn().Int("exit_code", exitCode).Msg("editor exited non-zero, proceeding with buffer contents on disk")
	}

	edited, err := os.Open(tmpPath)
	if err != nil {
		logger.Error().Err(err).Msg("reopening edited listing failed")
		return 1
	}
	parseResult, err := listing.Parse(edited, pre)
	edited.Close()
	if err != nil {
		logger.Error().Err(err).Msg("parsing edited listing failed")
		return 1
	}
	for _, w := range parseResult.Warnings {
		logger.Warn().Msg(w)
	}

	if dryRun {
		return previewPlan(logger, pre, parseResult.Posts)
	}

	result := reconcile.Run(pre, parseResult.Posts, reconcile.Options{Clobber: clobber}, logger)
	for _, step := range result.Steps {
		event := logger.Info()
		if step.Err != nil {
			event = logger.Error().Err(step.Err)
		}
		event.Str("kind", step.Kind.String()).Str("from", step.From).Str("to", step.To).Msg("step")
	}

	if !result.OK() {
		return 1
	}
	return 0
}

// previewPlan logs the classified intent for every entry without touching
// the filesystem, for -n/--dry-run.
func previewPlan(logger zerolog.Logger, pre []listing.Entry, post map[int]listing.PostPath) int {
	for _, e := range pre {
		p, ok := post[e.ID]
		if !ok {
			continue
		}
		switch {
		case p.Deleted:
			logger.Info().Str("path", e.Path).Msg("would delete")
		case p.Path != e.Path:
			logger.Info().Str("from", e.Path).Str("to", p.Path).Msg("would rename")
		}
	}
	return 0
}
