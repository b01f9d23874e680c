package dirstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dirEntries(sizes ...uint64) []DirectoryEntrySize {
	entries := make([]DirectoryEntrySize, 0, len(sizes))
	for i, size := range sizes {
		entries = append(entries, DirectoryEntrySize{Path: string(rune('a' + i)), SizeBytes: size})
	}

	return entries
}

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		entries  []DirectoryEntrySize
		topN     int
		wantLen  int
		wantPcts []float64
	}{
		{name: "empty", entries: nil, topN: 5, wantLen: 0},
		{name: "zero topN", entries: dirEntries(10, 5), topN: 0, wantLen: 0},
		{name: "negative topN", entries: dirEntries(10, 5), topN: -3, wantLen: 0},
		{name: "fewer than topN", entries: dirEntries(75, 25), topN: 5, wantLen: 2, wantPcts: []float64{75, 25}},
		{name: "truncated", entries: dirEntries(50, 30, 20), topN: 2, wantLen: 2, wantPcts: []float64{50, 30}},
		{name: "all zero", entries: dirEntries(0, 0, 0), topN: 3, wantLen: 3, wantPcts: []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank(tt.entries, tt.topN)

			require.NotNil(t, ranked)
			require.Len(t, ranked, tt.wantLen)

			for i, entry := range ranked {
				assert.Equal(t, i+1, entry.Rank)
				assert.Equal(t, tt.entries[i], entry.Item)
				assert.Equal(t, tt.entries[i].SizeBytes, entry.SizeBytes)
				assert.InDelta(t, tt.wantPcts[i], entry.Percent, 1e-9)
			}
		})
	}
}

func TestRankPercentages(t *testing.T) {
	entries := dirEntries(7, 3, 3, 1, 1, 1)

	var sum float64
	for _, entry := range Rank(entries, len(entries)) {
		assert.GreaterOrEqual(t, entry.Percent, 0.0)
		assert.LessOrEqual(t, entry.Percent, 100.0)
		sum += entry.Percent
	}

	assert.InDelta(t, 100.0, sum, 1e-9)

	sum = 0
	for _, entry := range Rank(entries, 2) {
		sum += entry.Percent
	}

	assert.InDelta(t, 62.5, sum, 1e-9)
}

func TestRankExtensions(t *testing.T) {
	ranked := Rank(SortedExtensions(map[string]uint64{".txt": 125, ".log": 50}), 5)

	require.Len(t, ranked, 2)
	assert.Equal(t, ".txt", ranked[0].Item.Label())
	assert.InDelta(t, 100.0*125/175, ranked[0].Percent, 1e-9)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankFailedEntriesCountAsZero(t *testing.T) {
	entries := dirEntries(40, 60)
	entries = append(entries, DirectoryEntrySize{Path: "denied", Err: assert.AnError})

	ranked := Rank(entries, 3)

	require.Len(t, ranked, 3)
	assert.InDelta(t, 40.0, ranked[0].Percent, 1e-9)
	assert.Zero(t, ranked[2].Percent)
	assert.True(t, ranked[2].Item.Failed())
}
