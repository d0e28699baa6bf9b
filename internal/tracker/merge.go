package tracker

import (
	"strings"

	"traq/internal/setup"
)

// Merge 在同一 key 的候选再次出现时刷新生命周期字段。
// TriggeredTS 只写一次，上游重复发 triggered 不会覆盖首次时间。
func Merge(r *Record, c setup.Candidate, now int64) {
	if r == nil {
		return
	}
	r.LastSeenTS = now
	status := strings.TrimSpace(c.Status)
	if status == "" {
		return
	}
	r.StatusLast = status
	if strings.EqualFold(status, setup.StatusTriggered) && r.TriggeredTS == 0 {
		r.TriggeredTS = now
	}
}
