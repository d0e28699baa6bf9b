// Package binance 基于 go-binance SDK 提供行情：mid 价与历史 K 线。
package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"traq/internal/feed"
	"traq/internal/scheduler"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

const maxHistoryLimit = 1500

// Config 描述 Binance 行情源的访问方式。
type Config struct {
	RESTBaseURL  string
	HTTPTimeout  time.Duration
	ProxyEnabled bool
	RESTProxyURL string
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.RESTBaseURL) == "" {
		c.RESTBaseURL = "https://fapi.binance.com"
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	return c
}

// Source 实现 feed.PriceSource 与 feed.HistorySource。
type Source struct {
	cfg    Config
	client *futures.Client
}

func New(cfg Config) (*Source, error) {
	final := cfg.withDefaults()
	client := futures.NewClient("", "")
	client.BaseURL = strings.TrimSpace(final.RESTBaseURL)
	httpClient := &http.Client{Timeout: final.HTTPTimeout}
	if final.ProxyEnabled && final.RESTProxyURL != "" {
		proxyURL, err := url.Parse(final.RESTProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REST proxy url: %w", err)
		}
		baseTransport, ok := http.DefaultTransport.(*http.Transport)
		if !ok || baseTransport == nil {
			return nil, fmt.Errorf("http DefaultTransport is not *http.Transport")
		}
		transport := baseTransport.Clone()
		transport.Proxy = http.ProxyURL(proxyURL)
		httpClient.Transport = transport
	}
	client.HTTPClient = httpClient
	return &Source{cfg: final, client: client}, nil
}

// MidPrice 取 book ticker 的 (bid+ask)/2。
// 交易所返回字符串价格，用 decimal 求中点后再转 float64，避免
// 直接浮点相加引入的尾差。
func (s *Source) MidPrice(ctx context.Context, symbol string) (float64, error) {
	clean := cleanSymbol(symbol)
	if clean == "" {
		return 0, fmt.Errorf("symbol is required")
	}
	tickers, err := s.client.NewListBookTickersService().Symbol(clean).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("book ticker %s: %w", clean, err)
	}
	if len(tickers) == 0 || tickers[0] == nil {
		return 0, fmt.Errorf("book ticker %s: empty response", clean)
	}
	bid, err := decimal.NewFromString(strings.TrimSpace(tickers[0].BidPrice))
	if err != nil {
		return 0, fmt.Errorf("book ticker %s: bad bid: %w", clean, err)
	}
	ask, err := decimal.NewFromString(strings.TrimSpace(tickers[0].AskPrice))
	if err != nil {
		return 0, fmt.Errorf("book ticker %s: bad ask: %w", clean, err)
	}
	mid, _ := bid.Add(ask).Div(decimal.NewFromInt(2)).Float64()
	return mid, nil
}

// FetchHistory 拉取已收盘的 K 线（最后一根未收盘的会被丢弃）。
func (s *Source) FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]feed.Candle, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	clean := cleanSymbol(symbol)
	if clean == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return nil, fmt.Errorf("interval is required")
	}
	kls, err := s.client.NewKlinesService().Symbol(clean).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]feed.Candle, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		out = append(out, feed.Candle{
			OpenTime:  kl.OpenTime,
			CloseTime: kl.CloseTime,
			Open:      parseFloat(kl.Open),
			High:      parseFloat(kl.High),
			Low:       parseFloat(kl.Low),
			Close:     parseFloat(kl.Close),
			Volume:    parseFloat(kl.Volume),
		})
	}
	if dur, ok := scheduler.ParseIntervalDuration(interval); ok {
		out = dropUnclosedKline(out, dur, time.Now().UTC())
	}
	return out, nil
}

// Binance 要求无斜杠的符号（ETH/USDT -> ETHUSDT）。
func cleanSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return strings.ReplaceAll(symbol, "/", "")
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
