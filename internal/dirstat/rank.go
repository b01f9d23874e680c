package dirstat

// Sized is an item with a display label and a byte size.
type Sized interface {
	Label() string
	Bytes() uint64
}

// RankedEntry is an item annotated with its position and share of the total.
type RankedEntry[T Sized] struct {
	// Rank is the 1-based position.
	Rank int `json:"rank"`
	// Item is the ranked item.
	Item T `json:"item"`
	// SizeBytes is the item size in bytes.
	SizeBytes uint64 `json:"size_bytes"`
	// Percent is the share of the total size of all entries, in [0,100].
	Percent float64 `json:"percent"`
}

// Rank wraps the first topN entries, in their given order, with 1-based ranks
// and their percentage of the summed size of all entries. A zero total yields
// zero percentages.
func Rank[T Sized](entries []T, topN int) []RankedEntry[T] {
	if topN <= 0 || len(entries) == 0 {
		return []RankedEntry[T]{}
	}

	var total uint64
	for _, entry := range entries {
		total += entry.Bytes()
	}

	shown := entries[:min(topN, len(entries))]
	ranked := make([]RankedEntry[T], 0, len(shown))

	for i, entry := range shown {
		pct := 0.0
		if total > 0 {
			pct = 100.0 * float64(entry.Bytes()) / float64(total)
		}

		ranked = append(ranked, RankedEntry[T]{
			Rank:      i + 1,
			Item:      entry,
			SizeBytes: entry.Bytes(),
			Percent:   pct,
		})
	}

	return ranked
}
