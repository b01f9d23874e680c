package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/idelchi/dirscope/internal/dirstat"
)

// State is a position of the interactive explorer.
type State int

const (
	// AtRoot lists the children of the scanned root.
	AtRoot State = iota
	// AtDirectory lists a selected directory below the root.
	AtDirectory
	// Terminated is absorbing; no further scans are issued.
	Terminated
)

func (s State) String() string {
	switch s {
	case AtRoot:
		return "AtRoot"
	case AtDirectory:
		return "AtDirectory"
	case Terminated:
		return "Terminated"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// InvalidSelectionError reports input that is neither "exit" nor an in-range index.
type InvalidSelectionError struct {
	// Input is the offending line, trimmed.
	Input string
	// Max is the highest valid index.
	Max int
}

func (e *InvalidSelectionError) Error() string {
	switch {
	case !isDigits(e.Input):
		return fmt.Sprintf("invalid input %q: enter a directory number or 'exit'", e.Input)
	case e.Max == 0:
		return "no directories to select: enter 'exit'"
	default:
		return fmt.Sprintf("invalid directory number %s: enter a number between 1 and %d", e.Input, e.Max)
	}
}

// Sizer provides the scans the explorer renders.
type Sizer interface {
	DirectorySizes(ctx context.Context, basePath string) ([]dirstat.DirectoryEntrySize, error)
	Extensions(ctx context.Context, path string) []dirstat.ExtensionSize
}

// Explorer drives the navigation state machine with line-based prompts.
type Explorer struct {
	sizer   Sizer
	usage   func(ctx context.Context, path string) (dirstat.DiskUsage, error)
	onScan  func(ctx context.Context) (stop func())
	log     *zap.Logger
	input   *bufio.Scanner
	out     io.Writer
	root    string
	current string
	state   State
	topDirs int
	topExts int
}

// ExplorerOption configures an Explorer.
type ExplorerOption func(*Explorer)

// WithDiskUsage replaces the disk usage lookup.
func WithDiskUsage(usage func(ctx context.Context, path string) (dirstat.DiskUsage, error)) ExplorerOption {
	return func(e *Explorer) {
		e.usage = usage
	}
}

// WithScanHook registers a function called before each scan; the returned
// function is called once the scan completes.
func WithScanHook(onScan func(ctx context.Context) (stop func())) ExplorerOption {
	return func(e *Explorer) {
		e.onScan = onScan
	}
}

// WithExplorerLogger sets the logger.
func WithExplorerLogger(log *zap.Logger) ExplorerOption {
	return func(e *Explorer) {
		e.log = log
	}
}

// NewExplorer creates an Explorer positioned at root.
func NewExplorer(root string, sizer Sizer, in io.Reader, out io.Writer, topDirs, topExts int, opts ...ExplorerOption) *Explorer {
	e := &Explorer{
		sizer:   sizer,
		usage:   dirstat.GetDiskUsage,
		onScan:  func(context.Context) func() { return func() {} },
		log:     zap.NewNop(),
		input:   bufio.NewScanner(in),
		out:     out,
		root:    root,
		current: root,
		state:   AtRoot,
		topDirs: topDirs,
		topExts: topExts,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// State returns the current state.
func (e *Explorer) State() State {
	return e.state
}

// Current returns the directory being shown.
func (e *Explorer) Current() string {
	return e.current
}

// Select applies one line of input to the state machine given the numbered
// entries on screen. Invalid input leaves the state unchanged.
func (e *Explorer) Select(input string, entries []dirstat.DirectoryEntrySize) error {
	if e.state == Terminated {
		return nil
	}

	input = strings.TrimSpace(input)

	if strings.EqualFold(input, "exit") {
		e.state = Terminated

		return nil
	}

	if !isDigits(input) {
		return &InvalidSelectionError{Input: input, Max: len(entries)}
	}

	index, err := strconv.Atoi(input)
	if err != nil || index < 1 || index > len(entries) {
		return &InvalidSelectionError{Input: input, Max: len(entries)}
	}

	e.current = entries[index-1].Path
	e.state = AtDirectory

	return nil
}

// Run shows screens and reads selections until the operator exits, input ends
// or ctx is cancelled. Only a failure to scan the root is returned.
func (e *Explorer) Run(ctx context.Context) error {
	for e.state != Terminated {
		dirs, exts, err := e.scan(ctx)

		switch {
		case errors.Is(err, context.Canceled):
			e.state = Terminated

			return nil
		case err != nil && e.state == AtRoot:
			e.state = Terminated

			return err
		case err != nil:
			e.log.Debug("scanning directory failed", zap.String("path", e.current), zap.Error(err))
			fmt.Fprintf(e.out, "\n[!] %v\n[!] returning to %s\n", err, e.root)

			e.state = AtRoot
			e.current = e.root

			continue
		}

		if err := e.render(ctx, dirs, exts); err != nil {
			return err
		}

		e.prompt(ctx, dirs)
	}

	return nil
}

func (e *Explorer) scan(ctx context.Context) ([]dirstat.DirectoryEntrySize, []dirstat.ExtensionSize, error) {
	stop := e.onScan(ctx)
	defer stop()

	e.log.Debug("scanning", zap.Stringer("state", e.state), zap.String("path", e.current))

	dirs, err := e.sizer.DirectorySizes(ctx, e.current)
	if err != nil {
		return nil, nil, err
	}

	if e.state != AtDirectory {
		return dirs, nil, nil
	}

	exts := e.sizer.Extensions(ctx, e.current)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	return dirs, exts, nil
}

func (e *Explorer) render(ctx context.Context, dirs []dirstat.DirectoryEntrySize, exts []dirstat.ExtensionSize) error {
	usage, err := e.usage(ctx, e.root)
	if err != nil {
		fmt.Fprintf(e.out, "\n[!] %v\n", err)
	} else if err := PrintDiskUsage(usage, e.out); err != nil {
		return err
	}

	title := "Directories"

	if e.state == AtDirectory {
		title = "Subdirectories"

		fmt.Fprintf(e.out, "\n[+] Selected directory:\n%s\n", e.current)

		if err := PrintRankedExtensions(dirstat.Rank(exts, e.topExts), e.out); err != nil {
			return err
		}
	} else if err := PrintRankedDirectories(dirstat.Rank(dirs, e.topDirs), e.out); err != nil {
		return err
	}

	return PrintSelection(title, dirs, e.out)
}

// prompt reads lines until one is accepted. End of input or cancellation terminates.
func (e *Explorer) prompt(ctx context.Context, dirs []dirstat.DirectoryEntrySize) {
	for {
		fmt.Fprint(e.out, "\nEnter the number of the directory to scan (or 'exit' to quit): ")

		line, ok := e.readLine(ctx)
		if !ok {
			fmt.Fprintln(e.out)

			e.state = Terminated

			return
		}

		err := e.Select(line, dirs)
		if err == nil {
			return
		}

		fmt.Fprintln(e.out, err)
	}
}

type lineResult struct {
	text string
	ok   bool
}

func (e *Explorer) readLine(ctx context.Context) (string, bool) {
	lines := make(chan lineResult, 1)

	go func() {
		ok := e.input.Scan()
		lines <- lineResult{text: e.input.Text(), ok: ok}
	}()

	select {
	case <-ctx.Done():
		return "", false
	case line := <-lines:
		return line.text, line.ok
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
