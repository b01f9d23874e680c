package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirscope/internal/dirstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

func newTabWriter(writer io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)
}

// PrintJSON outputs statistics in JSON format.
func PrintJSON(stats *dirstat.Stats, writer io.Writer) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPlain outputs one "<path>\t<size>" line per directory, largest first.
func PrintPlain(stats *dirstat.Stats, writer io.Writer) error {
	for _, dir := range stats.Directories {
		if _, err := fmt.Fprintf(writer, "%s\t%s\n", dir.Path, sizeText(dir)); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs statistics in human-readable table format.
func PrintTable(stats *dirstat.Stats, writer io.Writer) error {
	w := newTabWriter(writer)

	writeDiskUsage(w, stats.Disk)
	writeRankedDirectories(w, stats.TopDirectories)
	writeRankedExtensions(w, stats.TopExtensions)

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Total directories:\t%d\n", len(stats.Directories))
	fmt.Fprintf(w, "Total files:\t%d\n", stats.FileCount)
	fmt.Fprintf(w, "Total size:\t%s (%s bytes)\n",
		humanize.IBytes(stats.TotalBytes), humanize.Comma(int64(stats.TotalBytes))) //nolint:gosec // Fits in int64
	if stats.ErrorCount > 0 {
		fmt.Fprintf(w, "Errors:\t%d\n", stats.ErrorCount)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}

// PrintDiskUsage outputs total, used and free space of a volume.
func PrintDiskUsage(usage dirstat.DiskUsage, writer io.Writer) error {
	w := newTabWriter(writer)
	writeDiskUsage(w, usage)

	return w.Flush()
}

// PrintRankedDirectories outputs a ranked directory view.
func PrintRankedDirectories(ranked []dirstat.RankedEntry[dirstat.DirectoryEntrySize], writer io.Writer) error {
	w := newTabWriter(writer)
	writeRankedDirectories(w, ranked)

	return w.Flush()
}

// PrintRankedExtensions outputs a ranked extension view.
func PrintRankedExtensions(ranked []dirstat.RankedEntry[dirstat.ExtensionSize], writer io.Writer) error {
	w := newTabWriter(writer)
	writeRankedExtensions(w, ranked)

	return w.Flush()
}

// PrintSelection outputs the numbered list an operator picks from.
func PrintSelection(title string, dirs []dirstat.DirectoryEntrySize, writer io.Writer) error {
	w := newTabWriter(writer)

	fmt.Fprintf(w, "\n[+] %s:\t\t\n", title)

	if len(dirs) == 0 {
		fmt.Fprintln(w, "  (none)\t\t")
	}

	for i, dir := range dirs {
		fmt.Fprintf(w, "  %d) %s\t%s\n", i+1, dir.Path, sizeText(dir))
	}

	return w.Flush()
}

func writeDiskUsage(w io.Writer, usage dirstat.DiskUsage) {
	fmt.Fprintf(w, "\n[+] Total space on %s:\t%s\n", usage.Path, humanize.IBytes(usage.TotalBytes))
	fmt.Fprintf(w, "[+] Used space on %s:\t%s\n", usage.Path, humanize.IBytes(usage.UsedBytes))
	fmt.Fprintf(w, "[+] Unused space on %s:\t%s\n", usage.Path, humanize.IBytes(usage.FreeBytes))
}

func writeRankedDirectories(w io.Writer, ranked []dirstat.RankedEntry[dirstat.DirectoryEntrySize]) {
	fmt.Fprintln(w, "\n[+] Top directories:\t\t")

	if len(ranked) == 0 {
		fmt.Fprintln(w, "  (none)\t\t")
	}

	for _, entry := range ranked {
		fmt.Fprintf(w, "  %d) %s\t%s\t(%.2f%%)\n", entry.Rank, entry.Item.Path, sizeText(entry.Item), entry.Percent)
	}
}

func writeRankedExtensions(w io.Writer, ranked []dirstat.RankedEntry[dirstat.ExtensionSize]) {
	fmt.Fprintln(w, "\n[+] Top extensions:\t\t")

	if len(ranked) == 0 {
		fmt.Fprintln(w, "  (none)\t\t")
	}

	for _, entry := range ranked {
		fmt.Fprintf(w, "  %d) %s:\t%d files, %s\t(%.2f%%)\n",
			entry.Rank, entry.Item.Label(), entry.Item.Files, humanize.IBytes(entry.SizeBytes), entry.Percent)
	}
}

// sizeText renders a directory size, or its error marker when sizing failed.
func sizeText(dir dirstat.DirectoryEntrySize) string {
	if dir.Failed() {
		return fmt.Sprintf("%s [error: %v]", humanize.IBytes(dir.SizeBytes), dir.Err)
	}

	return humanize.IBytes(dir.SizeBytes)
}
