// Package tracker 维护 trade setup 的结果台账：每个 tick 对候选做
// upsert，跟踪开仓期间的最大有利/不利波动（R 倍数），并按固定优先级
// 判定止损/止盈/过期的终态。
package tracker

// Outcome 是记录的终态机状态，OPEN 之外的值只会被写入一次。
type Outcome string

const (
	OutcomeOpen    Outcome = "OPEN"
	OutcomeTP1     Outcome = "TP1"
	OutcomeStop    Outcome = "STOP"
	OutcomeExpired Outcome = "EXPIRED"
)

// Record 是被跟踪的 setup 台账记录。描述性字段在创建时冻结；
// 运行时只有生命周期字段与 excursion/closure 字段会变化。
type Record struct {
	Key       string `json:"key"`
	Symbol    string `json:"symbol"`
	Type      string `json:"type,omitempty"`
	Side      string `json:"side"`
	Timeframe string `json:"timeframe,omitempty"`

	CreatedTS  int64 `json:"created_ts"`
	LastSeenTS int64 `json:"last_seen_ts"`
	ExpiresTS  int64 `json:"expires_ts,omitempty"`

	// EntryAnchor 取自入场区间中点，Risk = |EntryAnchor-Stop|，创建后不变。
	EntryAnchor float64 `json:"entry_anchor"`
	Stop        float64 `json:"stop"`
	TP1         float64 `json:"tp1,omitempty"` // <=0 表示未提供，禁用止盈判定
	Risk        float64 `json:"risk"`

	HighSeen float64 `json:"high_seen"`
	LowSeen  float64 `json:"low_seen"`
	MFER     float64 `json:"mfe_r"`
	MAER     float64 `json:"mae_r"`

	StatusLast  string `json:"status_last,omitempty"`
	TriggeredTS int64  `json:"triggered_ts,omitempty"`

	Outcome  Outcome `json:"outcome"`
	ClosedTS int64   `json:"closed_ts,omitempty"`
}

// IsOpen 报告记录是否仍处于跟踪中。
func (r *Record) IsOpen() bool {
	return r.Outcome == OutcomeOpen
}
