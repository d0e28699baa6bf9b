package tracker

import (
	"math"

	"traq/internal/pkg/convert"
	"traq/internal/setup"
)

// riskEpsilon 以下的 risk 会产生无穷大的 R 倍数，直接拒绝建档。
const riskEpsilon = 1e-9

// Derive 从候选构建新的台账记录。返回 false 表示候选不可追踪：
// 缺 key、入场区间缺失或退化（要求 low < high）、止损缺失、risk 过小。
func Derive(symbol string, c setup.Candidate, now int64) (*Record, bool) {
	key := c.Key()
	if key == "" {
		return nil, false
	}

	zone := c.Entry
	if !convert.IsFinite(zone.Low) || !convert.IsFinite(zone.High) || zone.Low >= zone.High {
		return nil, false
	}
	anchor := (zone.Low + zone.High) / 2

	stop := c.Stop
	if !convert.IsFinite(stop) || stop <= 0 {
		return nil, false
	}

	risk := math.Abs(anchor - stop)
	if !convert.IsFinite(risk) || risk <= riskEpsilon {
		return nil, false
	}

	rec := &Record{
		Key:         key,
		Symbol:      symbol,
		Type:        c.Type,
		Side:        c.NormalizedSide(),
		Timeframe:   c.Timeframe,
		CreatedTS:   now,
		LastSeenTS:  now,
		EntryAnchor: anchor,
		Stop:        stop,
		Risk:        risk,
		HighSeen:    anchor,
		LowSeen:     anchor,
		StatusLast:  c.Status,
		Outcome:     OutcomeOpen,
	}
	if tp1, ok := c.TP1(); ok && convert.IsFinite(tp1) && tp1 > 0 {
		rec.TP1 = tp1
	}
	if c.ExpiresAt > 0 {
		rec.ExpiresTS = c.ExpiresAt
	}
	if rec.StatusLast == setup.StatusTriggered {
		rec.TriggeredTS = now
	}
	return rec, true
}
