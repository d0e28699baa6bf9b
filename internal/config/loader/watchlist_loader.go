// Package loader 负责从 YAML 文件加载标的清单，并监听热更新。
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"traq/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// WatchEntry 描述单个被追踪的标的。
type WatchEntry struct {
	Symbol   string `mapstructure:"symbol"`
	Interval string `mapstructure:"interval"`
	Enabled  *bool  `mapstructure:"enabled"`
}

// Active 返回该标的是否参与轮询（未显式配置视为开启）。
func (e WatchEntry) Active() bool {
	return e.Enabled == nil || *e.Enabled
}

// FileConfig 是完整的 watchlist 配置文件结构。
type FileConfig struct {
	Watchlist []WatchEntry `mapstructure:"watchlist"`
}

// WatchlistSnapshot 对外暴露的只读快照。
type WatchlistSnapshot struct {
	Version  int64
	LoadedAt time.Time
	Entries  []WatchEntry
}

// ActiveSymbols 返回启用中的标的符号列表（去重，保序）。
func (s WatchlistSnapshot) ActiveSymbols() []string {
	out := make([]string, 0, len(s.Entries))
	seen := make(map[string]bool, len(s.Entries))
	for _, e := range s.Entries {
		if !e.Active() {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(e.Symbol))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// ChangeListener 在清单变更时被调用。
type ChangeListener func(WatchlistSnapshot)

// WatchlistLoader 负责加载 watchlist 并监听热更新。
type WatchlistLoader struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  WatchlistSnapshot
	listeners []ChangeListener
}

// NewWatchlistLoader 读取清单文件并开始监听 FS 事件。
func NewWatchlistLoader(path string) (*WatchlistLoader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("watchlist loader requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read watchlist failed: %w", err)
	}
	loader := &WatchlistLoader{path: path, v: v}
	if err := loader.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := loader.reload(); err != nil {
			logger.Errorf("watchlist reload failed (%s): %v", evt.Name, err)
			return
		}
		loader.notify()
	})
	v.WatchConfig()
	return loader, nil
}

// Snapshot 返回当前清单快照（深拷贝）。
func (l *WatchlistLoader) Snapshot() WatchlistSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneSnapshot(l.snapshot)
}

// Subscribe 注册监听器，并立即收到一次完整快照。
func (l *WatchlistLoader) Subscribe(fn ChangeListener) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	snap := cloneSnapshot(l.snapshot)
	l.mu.Unlock()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("watchlist listener panic: %v", r)
			}
		}()
		fn(snap)
	}()
}

func (l *WatchlistLoader) notify() {
	l.mu.RLock()
	snap := cloneSnapshot(l.snapshot)
	listeners := append([]ChangeListener(nil), l.listeners...)
	l.mu.RUnlock()
	for _, fn := range listeners {
		if fn == nil {
			continue
		}
		go func(cb ChangeListener) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("watchlist listener panic: %v", r)
				}
			}()
			cb(snap)
		}(fn)
	}
}

// strictCheck 用 yaml 严格模式预检文件，拼写错误的字段名会被拒绝，
// 而不是被 viper 静默丢弃。
func strictCheck(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	for {
		var doc struct {
			Watchlist []struct {
				Symbol   string `yaml:"symbol"`
				Interval string `yaml:"interval"`
				Enabled  *bool  `yaml:"enabled"`
			} `yaml:"watchlist"`
		}
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (l *WatchlistLoader) reload() error {
	if err := strictCheck(l.path); err != nil {
		return fmt.Errorf("watchlist strict check failed: %w", err)
	}
	if err := l.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read watchlist failed: %w", err)
	}
	var fileCfg FileConfig
	if err := l.v.Unmarshal(&fileCfg); err != nil {
		return fmt.Errorf("parse watchlist failed: %w", err)
	}
	entries := make([]WatchEntry, 0, len(fileCfg.Watchlist))
	for _, e := range fileCfg.Watchlist {
		e.Symbol = strings.ToUpper(strings.TrimSpace(e.Symbol))
		e.Interval = strings.ToLower(strings.TrimSpace(e.Interval))
		if e.Symbol == "" {
			continue
		}
		entries = append(entries, e)
	}
	l.mu.Lock()
	l.snapshot = WatchlistSnapshot{
		Version:  l.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Entries:  entries,
	}
	l.mu.Unlock()
	logger.Infof("Watchlist loader reloaded %d entries from %s", len(entries), filepath.Base(l.path))
	return nil
}

func cloneSnapshot(snap WatchlistSnapshot) WatchlistSnapshot {
	out := snap
	out.Entries = append([]WatchEntry(nil), snap.Entries...)
	return out
}
