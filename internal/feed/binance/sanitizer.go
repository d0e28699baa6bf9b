package binance

import (
	"time"

	"traq/internal/feed"
)

const klineCloseGrace = 10 * time.Second

// dropUnclosedKline drops the last bar if it is still in progress.
// Binance style: the final kline of a history response may be the
// current, not-yet-closed candle. Times are epoch milliseconds.
func dropUnclosedKline(klines []feed.Candle, interval time.Duration, now time.Time) []feed.Candle {
	if len(klines) == 0 || interval <= 0 {
		return klines
	}
	last := klines[len(klines)-1]
	if last.OpenTime <= 0 {
		return klines
	}
	closeTimeMs := last.OpenTime + interval.Milliseconds()
	cutoffMs := closeTimeMs + klineCloseGrace.Milliseconds()
	if now.UnixMilli() < cutoffMs {
		return klines[:len(klines)-1]
	}
	return klines
}
