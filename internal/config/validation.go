package config

import (
	"fmt"

	"traq/internal/scheduler"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.Storage.validate(); err != nil {
		return err
	}
	if err := c.Feed.validate(); err != nil {
		return err
	}
	if err := c.Scout.validate(); err != nil {
		return err
	}
	if err := c.Tick.validate(); err != nil {
		return err
	}
	return nil
}

func (s *StorageConfig) validate() error {
	switch s.NormalizedDriver() {
	case "gorm", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.driver must be one of gorm/sqlite/memory, got %q", s.Driver)
	}
	if s.MaxItems <= 0 {
		return fmt.Errorf("storage.max_items must be > 0")
	}
	return nil
}

func (f *FeedConfig) validate() error {
	switch f.NormalizedSource() {
	case "scout":
	case "http":
		if f.Endpoint == "" {
			return fmt.Errorf("feed.endpoint is required when feed.source=http")
		}
	default:
		return fmt.Errorf("feed.source must be http or scout, got %q", f.Source)
	}
	return nil
}

func (s *ScoutConfig) validate() error {
	if s.FastEMA >= s.SlowEMA {
		return fmt.Errorf("scout.fast_ema (%d) must be below scout.slow_ema (%d)", s.FastEMA, s.SlowEMA)
	}
	if _, ok := scheduler.ParseIntervalDuration(s.Interval); !ok {
		return fmt.Errorf("scout.interval %q is not a valid interval", s.Interval)
	}
	return nil
}

func (t *TickConfig) validate() error {
	if _, ok := scheduler.ParseIntervalDuration(t.Interval); !ok {
		return fmt.Errorf("tick.interval %q is not a valid interval", t.Interval)
	}
	if t.OffsetSeconds < 0 {
		return fmt.Errorf("tick.offset_seconds must be >= 0")
	}
	return nil
}
