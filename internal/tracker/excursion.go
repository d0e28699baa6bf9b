package tracker

import (
	"traq/internal/pkg/convert"
	"traq/internal/setup"
)

// riskFloor 防止除零；Derive 已拒绝过小的 risk，这里只是兜底。
const riskFloor = 1e-12

// UpdateExcursion 用最新 mid 扩展已观测价格区间，并把有利/不利
// 偏移折算成 R 倍数。MFER/MAER 在记录存续期内单调不减。
// 仅作用于 OPEN 记录；非有限的 mid 是 no-op。
func UpdateExcursion(r *Record, mid float64) {
	if r == nil || !r.IsOpen() || !convert.IsFinite(mid) {
		return
	}
	if mid > r.HighSeen {
		r.HighSeen = mid
	}
	if mid < r.LowSeen {
		r.LowSeen = mid
	}

	var favorable, adverse float64
	if r.Side == setup.SideShort {
		favorable = r.EntryAnchor - r.LowSeen
		adverse = r.HighSeen - r.EntryAnchor
	} else {
		favorable = r.HighSeen - r.EntryAnchor
		adverse = r.EntryAnchor - r.LowSeen
	}

	risk := r.Risk
	if risk < riskFloor {
		risk = riskFloor
	}
	if v := favorable / risk; v > r.MFER {
		r.MFER = v
	}
	if v := adverse / risk; v > r.MAER {
		r.MAER = v
	}
}
