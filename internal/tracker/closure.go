package tracker

import (
	"traq/internal/pkg/convert"
	"traq/internal/setup"
)

// EvaluateClosure 判定 OPEN 记录是否进入终态。检查顺序固定：
// 先止损后止盈（同一 tick 同时满足时以止损为准，保守口径），
// 过期检查独立于价格，mid 非有限时仍然生效。
// 记录一旦关闭即为 no-op，Outcome/ClosedTS 不再改变。
func EvaluateClosure(r *Record, mid float64, now int64) {
	if r == nil || !r.IsOpen() {
		return
	}

	if convert.IsFinite(mid) {
		short := r.Side == setup.SideShort

		stopped := (!short && mid <= r.Stop) || (short && mid >= r.Stop)
		if stopped {
			closeRecord(r, OutcomeStop, now)
			return
		}

		if r.TP1 > 0 && convert.IsFinite(r.TP1) {
			hitTP := (!short && mid >= r.TP1) || (short && mid <= r.TP1)
			if hitTP {
				closeRecord(r, OutcomeTP1, now)
				return
			}
		}
	}

	if r.ExpiresTS > 0 && now > r.ExpiresTS {
		closeRecord(r, OutcomeExpired, now)
	}
}

func closeRecord(r *Record, outcome Outcome, now int64) {
	r.Outcome = outcome
	r.ClosedTS = now
}
