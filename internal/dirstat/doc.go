// Package dirstat provides disk usage collection and ranking.
//
// A Scanner computes recursive directory totals and per-extension totals for a
// subtree, tolerating access failures part way through a walk. Rank turns any
// sequence of sized items into a top-N view annotated with percentages, and
// GetDiskUsage reports total, used and free space of the volume holding a path.
package dirstat
