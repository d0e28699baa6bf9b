// Package scout 用本地指标从 K 线里发现 pullback 候选，
// 作为外部 HTTP 候选源之外的内置来源。
package scout

import (
	"context"
	"fmt"
	"math"
	"strings"

	"traq/internal/feed"
	"traq/internal/setup"

	talib "github.com/markcheno/go-talib"
)

// Config 控制指标参数与风险几何。
type Config struct {
	Interval   string
	Lookback   int
	FastEMA    int
	SlowEMA    int
	RSIPeriod  int
	ATRPeriod  int
	ZoneATR    float64
	StopATR    float64
	TargetR    float64
	ExpiryBars int
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Interval) == "" {
		c.Interval = "1h"
	}
	if c.Lookback <= 0 {
		c.Lookback = 200
	}
	if c.FastEMA <= 0 {
		c.FastEMA = 20
	}
	if c.SlowEMA <= 0 {
		c.SlowEMA = 50
	}
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = 14
	}
	if c.ATRPeriod <= 0 {
		c.ATRPeriod = 14
	}
	if c.ZoneATR <= 0 {
		c.ZoneATR = 0.25
	}
	if c.StopATR <= 0 {
		c.StopATR = 1.5
	}
	if c.TargetR <= 0 {
		c.TargetR = 2.0
	}
	if c.ExpiryBars <= 0 {
		c.ExpiryBars = 12
	}
	return c
}

// Scout 实现 feed.CandidateSource。
type Scout struct {
	cfg     Config
	history feed.HistorySource
}

func New(history feed.HistorySource, cfg Config) (*Scout, error) {
	if history == nil {
		return nil, fmt.Errorf("scout requires a history source")
	}
	final := cfg.withDefaults()
	if final.FastEMA >= final.SlowEMA {
		return nil, fmt.Errorf("scout: fast ema %d must be below slow ema %d", final.FastEMA, final.SlowEMA)
	}
	return &Scout{cfg: final, history: history}, nil
}

// Candidates 在趋势方向上寻找回调进场区。
// key 由 symbol/interval/openTime/side 派生，保证同一根 K 线的
// 信号在多个 tick 之间是同一个候选，只刷新 last_seen。
func (s *Scout) Candidates(ctx context.Context, symbol string) ([]setup.Candidate, error) {
	cfg := s.cfg
	candles, err := s.history.FetchHistory(ctx, symbol, cfg.Interval, cfg.Lookback)
	if err != nil {
		return nil, fmt.Errorf("scout history %s: %w", symbol, err)
	}
	need := cfg.SlowEMA
	if cfg.ATRPeriod+1 > need {
		need = cfg.ATRPeriod + 1
	}
	if len(candles) < need {
		return []setup.Candidate{}, nil
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
		closes[i] = c.Close
	}

	fast := talib.Ema(closes, cfg.FastEMA)
	slow := talib.Ema(closes, cfg.SlowEMA)
	rsi := talib.Rsi(closes, cfg.RSIPeriod)
	atr := talib.Atr(highs, lows, closes, cfg.ATRPeriod)

	last := len(candles) - 1
	fastV, slowV, rsiV, atrV := fast[last], slow[last], rsi[last], atr[last]
	if !finite(fastV) || !finite(slowV) || !finite(rsiV) || !finite(atrV) || atrV <= 0 {
		return []setup.Candidate{}, nil
	}

	side := ""
	switch {
	case fastV > slowV && rsiV < 55:
		side = setup.SideLong
	case fastV < slowV && rsiV > 45:
		side = setup.SideShort
	}
	if side == "" {
		return []setup.Candidate{}, nil
	}

	anchor := fastV
	zone := setup.Zone{Low: anchor - cfg.ZoneATR*atrV, High: anchor + cfg.ZoneATR*atrV}
	var stop, tp1 float64
	if side == setup.SideLong {
		stop = anchor - cfg.StopATR*atrV
		tp1 = anchor + cfg.TargetR*(anchor-stop)
	} else {
		stop = anchor + cfg.StopATR*atrV
		tp1 = anchor - cfg.TargetR*(stop-anchor)
	}
	if stop <= 0 || tp1 <= 0 {
		return []setup.Candidate{}, nil
	}

	openTime := candles[last].OpenTime
	expires := int64(0)
	if barMs := barMillis(candles); barMs > 0 {
		expires = openTime + int64(cfg.ExpiryBars)*barMs
	}

	c := setup.Candidate{
		ID:          fmt.Sprintf("scout-%s-%s-%d-%s", strings.ToLower(strings.TrimSpace(symbol)), cfg.Interval, openTime, side),
		Symbol:      symbol,
		Type:        "pullback",
		Side:        side,
		Timeframe:   cfg.Interval,
		Mode:        "limit",
		Entry:       zone,
		Stop:        stop,
		TakeProfits: []float64{tp1},
		ExpiresAt:   expires,
		Status:      setup.StatusForming,
	}
	return []setup.Candidate{c}, nil
}

func barMillis(candles []feed.Candle) int64 {
	if len(candles) < 2 {
		return 0
	}
	d := candles[len(candles)-1].OpenTime - candles[len(candles)-2].OpenTime
	if d <= 0 {
		return 0
	}
	return d
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var _ feed.CandidateSource = (*Scout)(nil)
