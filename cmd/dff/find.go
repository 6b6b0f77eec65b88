package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dff "github.com/lemonyte/dff/pkg"
)

// runFind scans the given directories and prints the duplicate groups
func runFind(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := opts.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	all := cfg.GetAllConfig()

	logger, err := dff.InitLogging(all.Verbose.Level, all.Verbose.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("loaded configuration", zap.String("path", cfg.Path()))

	depth, err := cfg.CompareDepth()
	if err != nil {
		return err
	}
	hasher, err := cfg.NewHasher()
	if err != nil {
		return err
	}
	excludes, err := cfg.NewExcludeSet(opts.excludes)
	if err != nil {
		return err
	}

	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	roots, err := dff.ResolveRoots(dirs, logger)
	if err != nil {
		return err
	}

	ctx, stop := setupSignalHandler(cmd.Context())
	defer stop()

	start := time.Now()
	summary := newSummary(cmd.ErrOrStderr())

	enumerator := &dff.Enumerator{
		Exclude:     excludes,
		SymlinkMode: all.Symlink.Mode,
		Logger:      logger,
	}
	found, err := enumerator.Enumerate(ctx, roots)
	if err != nil {
		return interrupted(err)
	}
	summary.files(len(found.Records))

	var reporter dff.Reporter = dff.NopReporter{}
	if !opts.noProgress {
		reporter = dff.NewTerminalReporter(os.Stderr)
	}

	pipeline := &dff.Pipeline{
		Hasher:   hasher,
		Workers:  all.Performance.HashWorkers,
		Reporter: reporter,
		Logger:   logger,
	}
	result, err := pipeline.Run(ctx, found.Records, depth)
	if err != nil {
		return interrupted(err)
	}

	for _, stage := range result.Stages {
		summary.stage(stage)
	}
	summary.duplicates(result.DuplicateCount(), result.TotalFiles, time.Since(start))

	if err := dff.Render(cmd.OutOrStdout(), all.Output.Format, result.Groups); err != nil {
		return err
	}

	if opts.failOnDuplicate && result.HasDuplicates() {
		return &exitStatus{code: exitDuplicates}
	}
	return nil
}

// interrupted maps cancellation to the interrupt exit code and passes other errors through
func interrupted(err error) error {
	if errors.Is(err, context.Canceled) {
		return &exitStatus{code: exitInterrupt}
	}
	return err
}
