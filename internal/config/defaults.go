package config

import "strings"

// 默认值常量
const (
	defaultAppEnv          = "dev"
	defaultAppLogLevel     = "info"
	defaultAppHTTPAddr     = ":9983"
	defaultAppLogPath      = "/data/logs/traq.log"
	defaultStorageDriver   = "gorm"
	defaultStoragePath     = "/data/db/traq.db"
	defaultStorageKey      = "traq:ledger:v1"
	defaultStorageMax      = 400
	defaultFeedSource      = "scout"
	defaultFeedTimeout     = 10
	defaultMarketREST      = "https://fapi.binance.com"
	defaultMarketTimeout   = 10
	defaultScoutInterval   = "1h"
	defaultScoutLookback   = 200
	defaultScoutFastEMA    = 20
	defaultScoutSlowEMA    = 50
	defaultScoutRSI        = 14
	defaultScoutATR        = 14
	defaultScoutZoneATR    = 0.25
	defaultScoutStopATR    = 1.5
	defaultScoutTargetR    = 2.0
	defaultScoutExpiry     = 12
	defaultTickInterval    = "1m"
	defaultWatchlistPath   = "configs/watchlist.yaml"
	defaultWatchlistSymbol = "BTC/USDT"
)

// applyDefaults 为所有子配置应用默认值。
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Storage.applyDefaults(keys)
	c.Feed.applyDefaults(keys)
	c.Market.applyDefaults(keys)
	c.Scout.applyDefaults(keys)
	c.Tick.applyDefaults(keys)
	c.Watchlist.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
		stringFieldDefault("app.log_path", &a.LogPath, defaultAppLogPath),
	)
}

func (s *StorageConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("storage.driver", &s.Driver, defaultStorageDriver),
		stringFieldDefault("storage.path", &s.Path, defaultStoragePath),
		stringFieldDefault("storage.key", &s.Key, defaultStorageKey),
		fieldDefault{
			key:   "storage.max_items",
			need:  func() bool { return s.MaxItems <= 0 },
			apply: func() { s.MaxItems = defaultStorageMax },
		},
	)
}

func (f *FeedConfig) applyDefaults(keys keySet) {
	if f == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("feed.source", &f.Source, defaultFeedSource),
		fieldDefault{
			key:   "feed.timeout_seconds",
			need:  func() bool { return f.TimeoutSeconds <= 0 },
			apply: func() { f.TimeoutSeconds = defaultFeedTimeout },
		},
	)
}

func (m *MarketConfig) applyDefaults(keys keySet) {
	if m == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("market.rest_base_url", &m.RESTBaseURL, defaultMarketREST),
		fieldDefault{
			key:   "market.timeout_seconds",
			need:  func() bool { return m.TimeoutSeconds <= 0 },
			apply: func() { m.TimeoutSeconds = defaultMarketTimeout },
		},
	)
}

func (s *ScoutConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("scout.interval", &s.Interval, defaultScoutInterval),
		fieldDefault{
			key:   "scout.lookback",
			need:  func() bool { return s.Lookback <= 0 },
			apply: func() { s.Lookback = defaultScoutLookback },
		},
		fieldDefault{
			key:   "scout.fast_ema",
			need:  func() bool { return s.FastEMA <= 0 },
			apply: func() { s.FastEMA = defaultScoutFastEMA },
		},
		fieldDefault{
			key:   "scout.slow_ema",
			need:  func() bool { return s.SlowEMA <= 0 },
			apply: func() { s.SlowEMA = defaultScoutSlowEMA },
		},
		fieldDefault{
			key:   "scout.rsi_period",
			need:  func() bool { return s.RSIPeriod <= 0 },
			apply: func() { s.RSIPeriod = defaultScoutRSI },
		},
		fieldDefault{
			key:   "scout.atr_period",
			need:  func() bool { return s.ATRPeriod <= 0 },
			apply: func() { s.ATRPeriod = defaultScoutATR },
		},
		fieldDefault{
			key:   "scout.zone_atr",
			need:  func() bool { return s.ZoneATR <= 0 },
			apply: func() { s.ZoneATR = defaultScoutZoneATR },
		},
		fieldDefault{
			key:   "scout.stop_atr",
			need:  func() bool { return s.StopATR <= 0 },
			apply: func() { s.StopATR = defaultScoutStopATR },
		},
		fieldDefault{
			key:   "scout.target_r",
			need:  func() bool { return s.TargetR <= 0 },
			apply: func() { s.TargetR = defaultScoutTargetR },
		},
		fieldDefault{
			key:   "scout.expiry_bars",
			need:  func() bool { return s.ExpiryBars <= 0 },
			apply: func() { s.ExpiryBars = defaultScoutExpiry },
		},
	)
}

func (t *TickConfig) applyDefaults(keys keySet) {
	if t == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("tick.interval", &t.Interval, defaultTickInterval),
	)
}

func (w *WatchlistConfig) applyDefaults(keys keySet) {
	if w == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("watchlist.path", &w.Path, defaultWatchlistPath),
		fieldDefault{
			key:   "watchlist.symbols",
			need:  func() bool { return len(w.Symbols) == 0 },
			apply: func() { w.Symbols = []string{defaultWatchlistSymbol} },
		},
	)
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
