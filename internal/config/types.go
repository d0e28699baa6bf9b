package config

import "strings"

// Config 是 traq 的主配置载体。
type Config struct {
	App       AppConfig       `toml:"app"`
	Storage   StorageConfig   `toml:"storage"`
	Feed      FeedConfig      `toml:"feed"`
	Market    MarketConfig    `toml:"market"`
	Scout     ScoutConfig     `toml:"scout"`
	Tick      TickConfig      `toml:"tick"`
	Watchlist WatchlistConfig `toml:"watchlist"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// StorageConfig 选择账本落盘方式。
type StorageConfig struct {
	Driver   string `toml:"driver"` // gorm | sqlite | memory
	Path     string `toml:"path"`
	Key      string `toml:"key"`
	MaxItems int    `toml:"max_items"`
}

// FeedConfig 选择候选来源。
type FeedConfig struct {
	Source         string `toml:"source"` // http | scout
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// MarketConfig 描述行情源（mid 价与历史 K 线）。
type MarketConfig struct {
	RESTBaseURL    string `toml:"rest_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	ProxyEnabled   bool   `toml:"proxy_enabled"`
	RESTProxyURL   string `toml:"rest_proxy_url"`
}

// ScoutConfig 控制内置候选发现的指标参数。
type ScoutConfig struct {
	Interval   string  `toml:"interval"`
	Lookback   int     `toml:"lookback"`
	FastEMA    int     `toml:"fast_ema"`
	SlowEMA    int     `toml:"slow_ema"`
	RSIPeriod  int     `toml:"rsi_period"`
	ATRPeriod  int     `toml:"atr_period"`
	ZoneATR    float64 `toml:"zone_atr"`
	StopATR    float64 `toml:"stop_atr"`
	TargetR    float64 `toml:"target_r"`
	ExpiryBars int     `toml:"expiry_bars"`
}

// TickConfig 控制轮询节奏。
type TickConfig struct {
	Interval       string `toml:"interval"`
	OffsetSeconds  int    `toml:"offset_seconds"`
	RunImmediately bool   `toml:"run_immediately"`
}

// WatchlistConfig 指向热更新的标的清单文件。
type WatchlistConfig struct {
	Path    string   `toml:"path"`
	Symbols []string `toml:"symbols"`
}

// NormalizedDriver 返回小写去空白后的存储驱动名。
func (s StorageConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

// NormalizedSource 返回小写去空白后的候选来源名。
func (f FeedConfig) NormalizedSource() string {
	return strings.ToLower(strings.TrimSpace(f.Source))
}

// keySet 用于追踪配置文件中显式设置的字段路径。
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault 描述单个字段的默认值设置规则。
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
