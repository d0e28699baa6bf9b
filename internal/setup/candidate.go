// Package setup 定义上游分析管线产出的交易 setup 候选结构。
package setup

import (
	"encoding/json"
	"strings"

	"traq/internal/pkg/convert"
)

// 上游状态标记。StatusTriggered 首次出现时记录触发时间。
const (
	StatusForming   = "forming"
	StatusTriggered = "triggered"
)

const (
	SideLong  = "long"
	SideShort = "short"
)

// Zone 描述入场价格区间。
type Zone struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Candidate 是上游产出的 setup 候选（只读输入，不做语义校验）。
// 字段宽松解析：数字可能以字符串形式出现，缺失字段保持零值。
type Candidate struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Type        string    `json:"type"`
	Side        string    `json:"side"`
	Timeframe   string    `json:"timeframe"`
	Mode        string    `json:"mode"`
	Entry       Zone      `json:"entry"`
	Stop        float64   `json:"stop"`
	TakeProfits []float64 `json:"take_profits"`
	ExpiresAt   int64     `json:"expires_at"`
	Status      string    `json:"status"`
}

// Key 返回候选的稳定标识，空串表示不可追踪。
func (c Candidate) Key() string {
	return strings.TrimSpace(c.ID)
}

// NormalizedSide 只认 "short"，其余一律视为 "long"。
func (c Candidate) NormalizedSide() string {
	if strings.EqualFold(strings.TrimSpace(c.Side), SideShort) {
		return SideShort
	}
	return SideLong
}

// TP1 返回第一个止盈位；(0,false) 表示未提供。
func (c Candidate) TP1() (float64, bool) {
	if len(c.TakeProfits) == 0 {
		return 0, false
	}
	return c.TakeProfits[0], true
}

func (c *Candidate) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = convert.ToString(raw["id"])
	if c.ID == "" {
		c.ID = convert.ToString(raw["key"])
	}
	c.Symbol = convert.ToString(raw["symbol"])
	c.Type = convert.ToString(raw["type"])
	c.Side = convert.ToString(raw["side"])
	c.Timeframe = convert.ToString(raw["timeframe"])
	c.Mode = convert.ToString(raw["mode"])
	c.Stop = convert.ToFloat64(raw["stop"])
	c.ExpiresAt = convert.ToInt64(raw["expires_at"])
	c.Status = convert.ToString(raw["status"])

	if v, ok := raw["entry"]; ok && v != nil {
		if zone, ok := v.(map[string]any); ok {
			c.Entry = Zone{
				Low:  convert.ToFloat64(zone["low"]),
				High: convert.ToFloat64(zone["high"]),
			}
		}
	}
	if v, ok := raw["take_profits"]; ok && v != nil {
		if list, ok := v.([]any); ok {
			tps := make([]float64, 0, len(list))
			for _, item := range list {
				tps = append(tps, convert.ToFloat64(item))
			}
			c.TakeProfits = tps
		}
	}
	return nil
}
