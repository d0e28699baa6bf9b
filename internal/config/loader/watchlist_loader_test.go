package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWatchlist(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestWatchlistLoaderNormalizes(t *testing.T) {
	path := writeWatchlist(t, `
watchlist:
  - symbol: btc/usdt
    interval: 1H
  - symbol: "  "
  - symbol: ETH/USDT
    enabled: false
  - symbol: BTC/USDT
`)
	l, err := NewWatchlistLoader(path)
	require.NoError(t, err)

	snap := l.Snapshot()
	require.Len(t, snap.Entries, 3)
	assert.Equal(t, "BTC/USDT", snap.Entries[0].Symbol)
	assert.Equal(t, "1h", snap.Entries[0].Interval)
	assert.False(t, snap.Entries[1].Active())

	// 启用去重后只剩一个 BTC
	assert.Equal(t, []string{"BTC/USDT"}, snap.ActiveSymbols())
}

func TestWatchlistSnapshotIsCopy(t *testing.T) {
	path := writeWatchlist(t, "watchlist:\n  - symbol: BTC/USDT\n")
	l, err := NewWatchlistLoader(path)
	require.NoError(t, err)

	snap := l.Snapshot()
	snap.Entries[0].Symbol = "MUTATED"
	assert.Equal(t, "BTC/USDT", l.Snapshot().Entries[0].Symbol)
}

func TestWatchlistLoaderRequiresPath(t *testing.T) {
	_, err := NewWatchlistLoader("  ")
	assert.Error(t, err)

	_, err = NewWatchlistLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchlistRejectsUnknownFields(t *testing.T) {
	path := writeWatchlist(t, `
watchlist:
  - symbol: BTC/USDT
    intreval: 1h
`)
	_, err := NewWatchlistLoader(path)
	assert.Error(t, err)
}

func TestWatchlistSubscribeGetsInitialSnapshot(t *testing.T) {
	path := writeWatchlist(t, "watchlist:\n  - symbol: BTC/USDT\n")
	l, err := NewWatchlistLoader(path)
	require.NoError(t, err)

	got := make(chan WatchlistSnapshot, 1)
	l.Subscribe(func(s WatchlistSnapshot) { got <- s })

	snap := <-got
	assert.Equal(t, []string{"BTC/USDT"}, snap.ActiveSymbols())
}
