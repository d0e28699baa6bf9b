// Package app 负责应用级编排：加载配置→初始化依赖→启动轮询与 HTTP 服务。
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"traq/internal/config"
	"traq/internal/config/loader"
	"traq/internal/feed"
	"traq/internal/logger"
	"traq/internal/scheduler"
	"traq/internal/store"
	"traq/internal/tracker"
	ledgerhttp "traq/internal/transport/http/ledger"

	"golang.org/x/sync/errgroup"
)

// App 持有全部运行期组件。
type App struct {
	cfg        *config.Config
	store      store.BlobStore
	tracker    *tracker.Tracker
	candidates feed.CandidateSource
	prices     feed.PriceSource
	http       *ledgerhttp.Server
	watchlist  *loader.WatchlistLoader
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildApp(cfg)
}

// Run 启动 HTTP 服务与轮询调度，直到 ctx 取消。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	interval, ok := scheduler.ParseIntervalDuration(a.cfg.Tick.Interval)
	if !ok {
		return fmt.Errorf("invalid tick interval %q", a.cfg.Tick.Interval)
	}

	logger.InfoBlock(fmt.Sprintf(
		"traq started\n- http: %s\n- storage: %s\n- feed: %s\n- tick: %s\n- symbols: %s",
		a.http.Addr(), a.cfg.Storage.NormalizedDriver(), a.cfg.Feed.NormalizedSource(),
		a.cfg.Tick.Interval, strings.Join(a.symbols(), ", ")))

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := a.http.Start(ctx); err != nil {
			return fmt.Errorf("ledger http server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		defer a.close()
		sched := scheduler.NewAlignedScheduler(ctx, interval, time.Duration(a.cfg.Tick.OffsetSeconds)*time.Second)
		sched.RunImmediately = a.cfg.Tick.RunImmediately
		sched.Start(func() { a.tickAll(ctx) })
		return nil
	})

	return group.Wait()
}

// tickAll 对清单中的每个标的执行一次追踪 tick。
// 单个标的的行情/候选失败只跳过该标的，不中断整轮。
func (a *App) tickAll(ctx context.Context) {
	for _, symbol := range a.symbols() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		candidates, err := a.candidates.Candidates(ctx, symbol)
		if err != nil {
			logger.Warnf("tick %s: candidates fetch failed: %v", symbol, err)
			continue
		}
		mid, err := a.prices.MidPrice(ctx, symbol)
		if err != nil {
			logger.Warnf("tick %s: mid price fetch failed: %v", symbol, err)
			continue
		}
		a.tracker.Tick(ctx, symbol, candidates, mid, time.Now().UnixMilli())
	}
}

// symbols 返回当前生效的标的清单。
func (a *App) symbols() []string {
	if a.watchlist != nil {
		if active := a.watchlist.Snapshot().ActiveSymbols(); len(active) > 0 {
			return active
		}
	}
	out := make([]string, 0, len(a.cfg.Watchlist.Symbols))
	for _, s := range a.cfg.Watchlist.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (a *App) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logger.Warnf("closing blob store failed: %v", err)
	}
}

// Tracker exposes the underlying tracker instance (for testing/replay harnesses).
func (a *App) Tracker() *tracker.Tracker {
	if a == nil {
		return nil
	}
	return a.tracker
}
