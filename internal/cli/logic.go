package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/idelchi/dirscope/internal/dirstat"
	"github.com/idelchi/dirscope/internal/logging"
)

func logic(ctx context.Context, options dirstat.Options, in io.Reader, out, errOut io.Writer) error {
	log := logging.New(options.Debug, errOut)
	defer func() { _ = log.Sync() }()

	log.Debug("resolved options",
		zap.String("path", options.Path),
		zap.Int("top", options.TopDirs),
		zap.Int("top_ext", options.TopExts),
		zap.Int("workers", options.Workers),
		zap.String("output", options.Output),
		zap.Bool("report", options.Report),
	)

	enableProgress := options.Output == "table" &&
		!options.Debug &&
		isTerminal(errOut)

	// Simple progress callback that prints directly to stderr
	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(errOut, "\033[?25l")
		defer fmt.Fprint(errOut, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(errOut, "\r\033[2K%s\r", msg)
		}
	}

	clearStatus := func() {
		if enableProgress {
			fmt.Fprint(errOut, "\r\033[2K\r")
		}
	}

	if options.Report || options.Output != "table" {
		stats, err := dirstat.Run(ctx, options, log, progressHook)

		clearStatus()

		if err != nil {
			return err
		}

		switch options.Output {
		case "json":
			return PrintJSON(stats, out)
		case "plain":
			return PrintPlain(stats, out)
		default:
			return PrintTable(stats, out)
		}
	}

	progress := &dirstat.Progress{}
	scanner := dirstat.NewScanner(
		dirstat.WithLogger(log),
		dirstat.WithWorkers(options.Workers),
		dirstat.WithProgress(progress),
	)

	explorer := NewExplorer(
		filepath.Clean(options.Path),
		scanner,
		in,
		out,
		options.TopDirs,
		options.TopExts,
		WithExplorerLogger(log),
		WithScanHook(func(ctx context.Context) func() {
			ctx, cancel := context.WithCancel(ctx)

			progress.Reset()
			dirstat.StartProgressReporter(ctx, progress, progressHook, options.ProgressInterval)

			return func() {
				cancel()
				clearStatus()
			}
		}),
	)

	return explorer.Run(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
