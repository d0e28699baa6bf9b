package scout

import (
	"context"
	"testing"

	"traq/internal/feed"
	"traq/internal/setup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	candles []feed.Candle
	err     error
}

func (s *stubHistory) FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]feed.Candle, error) {
	return s.candles, s.err
}

// choppyUptrend 构造震荡上行的 K 线：涨跌交替但净涨幅为正，
// 这样 fast EMA 稳定在 slow EMA 之上，而 RSI 停留在 55 以下。
func choppyUptrend(n int) []feed.Candle {
	out := make([]feed.Candle, n)
	price := 100.0
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			price += 2.0
		} else {
			price -= 1.7
		}
		out[i] = feed.Candle{
			OpenTime: int64(i) * 3_600_000,
			High:     price + 0.5,
			Low:      price - 0.5,
			Close:    price,
		}
	}
	return out
}

func TestScoutEmitsLongPullbackCandidate(t *testing.T) {
	sc, err := New(&stubHistory{candles: choppyUptrend(200)}, Config{Interval: "1h"})
	require.NoError(t, err)

	got, err := sc.Candidates(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, setup.SideLong, c.Side)
	assert.Equal(t, "pullback", c.Type)
	assert.Equal(t, setup.StatusForming, c.Status)
	assert.Equal(t, "scout-btcusdt-1h-716400000-long", c.Key())

	// 区间夹在止损与目标之间
	require.Less(t, c.Entry.Low, c.Entry.High)
	anchor := (c.Entry.Low + c.Entry.High) / 2
	assert.Less(t, c.Stop, c.Entry.Low)
	require.Len(t, c.TakeProfits, 1)
	assert.Greater(t, c.TakeProfits[0], anchor)

	// 过期时间 = 最后一根开盘时间 + ExpiryBars 根
	assert.Equal(t, int64(716_400_000+12*3_600_000), c.ExpiresAt)
}

func TestScoutSameBarSameKey(t *testing.T) {
	hist := &stubHistory{candles: choppyUptrend(200)}
	sc, err := New(hist, Config{})
	require.NoError(t, err)

	first, err := sc.Candidates(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	second, err := sc.Candidates(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Key(), second[0].Key())
}

func TestScoutTooLittleHistory(t *testing.T) {
	sc, err := New(&stubHistory{candles: choppyUptrend(20)}, Config{})
	require.NoError(t, err)

	got, err := sc.Candidates(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScoutRejectsBadConfig(t *testing.T) {
	_, err := New(&stubHistory{}, Config{FastEMA: 50, SlowEMA: 20})
	assert.Error(t, err)

	_, err = New(nil, Config{})
	assert.Error(t, err)
}

func TestScoutPropagatesHistoryError(t *testing.T) {
	sc, err := New(&stubHistory{err: assert.AnError}, Config{})
	require.NoError(t, err)

	_, err = sc.Candidates(context.Background(), "BTCUSDT")
	assert.Error(t, err)
}
