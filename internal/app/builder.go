package app

import (
	"fmt"
	"os"
	"time"

	"traq/internal/config"
	"traq/internal/config/loader"
	"traq/internal/feed"
	binancefeed "traq/internal/feed/binance"
	"traq/internal/feed/httpfeed"
	"traq/internal/logger"
	"traq/internal/scout"
	"traq/internal/store"
	"traq/internal/store/gormstore"
	"traq/internal/store/sqlitestore"
	"traq/internal/tracker"
	ledgerhttp "traq/internal/transport/http/ledger"
)

// buildApp 按配置组装全部依赖（不启动）。
func buildApp(cfg *config.Config) (*App, error) {
	blobStore, err := buildStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	trk := tracker.New(tracker.Config{
		Store:      blobStore,
		StorageKey: cfg.Storage.Key,
		MaxItems:   cfg.Storage.MaxItems,
	})

	market, err := binancefeed.New(binancefeed.Config{
		RESTBaseURL:  cfg.Market.RESTBaseURL,
		HTTPTimeout:  time.Duration(cfg.Market.TimeoutSeconds) * time.Second,
		ProxyEnabled: cfg.Market.ProxyEnabled,
		RESTProxyURL: cfg.Market.RESTProxyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init market source: %w", err)
	}

	candidates, err := buildCandidateSource(cfg, market)
	if err != nil {
		return nil, fmt.Errorf("init candidate source: %w", err)
	}

	httpSrv, err := ledgerhttp.NewServer(ledgerhttp.ServerConfig{
		Addr:    cfg.App.HTTPAddr,
		Tracker: trk,
	})
	if err != nil {
		return nil, fmt.Errorf("init http server: %w", err)
	}

	watchlist := buildWatchlist(cfg.Watchlist)

	return &App{
		cfg:        cfg,
		store:      blobStore,
		tracker:    trk,
		candidates: candidates,
		prices:     market,
		http:       httpSrv,
		watchlist:  watchlist,
	}, nil
}

func buildStore(cfg config.StorageConfig) (store.BlobStore, error) {
	switch cfg.NormalizedDriver() {
	case "gorm":
		return gormstore.New(cfg.Path)
	case "sqlite":
		return sqlitestore.New(cfg.Path)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func buildCandidateSource(cfg *config.Config, market *binancefeed.Source) (feed.CandidateSource, error) {
	switch cfg.Feed.NormalizedSource() {
	case "http":
		return httpfeed.New(httpfeed.Config{
			Endpoint:    cfg.Feed.Endpoint,
			HTTPTimeout: time.Duration(cfg.Feed.TimeoutSeconds) * time.Second,
		})
	case "scout":
		return scout.New(market, scout.Config{
			Interval:   cfg.Scout.Interval,
			Lookback:   cfg.Scout.Lookback,
			FastEMA:    cfg.Scout.FastEMA,
			SlowEMA:    cfg.Scout.SlowEMA,
			RSIPeriod:  cfg.Scout.RSIPeriod,
			ATRPeriod:  cfg.Scout.ATRPeriod,
			ZoneATR:    cfg.Scout.ZoneATR,
			StopATR:    cfg.Scout.StopATR,
			TargetR:    cfg.Scout.TargetR,
			ExpiryBars: cfg.Scout.ExpiryBars,
		})
	default:
		return nil, fmt.Errorf("unknown feed source %q", cfg.Feed.Source)
	}
}

// buildWatchlist 优先使用热更新文件，文件缺失时退回配置内联清单。
func buildWatchlist(cfg config.WatchlistConfig) *loader.WatchlistLoader {
	if cfg.Path == "" {
		return nil
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		logger.Warnf("watchlist file %s not readable (%v), falling back to inline symbols", cfg.Path, err)
		return nil
	}
	wl, err := loader.NewWatchlistLoader(cfg.Path)
	if err != nil {
		logger.Warnf("watchlist loader init failed (%v), falling back to inline symbols", err)
		return nil
	}
	return wl
}
