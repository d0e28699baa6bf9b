package tracker

import "sort"

// DefaultMaxItems 是台账的默认容量上限。
const DefaultMaxItems = 400

// Prune 在超出容量时裁剪台账：OPEN 记录无条件保留（即使单独超限），
// 已关闭记录按 closed_ts 从新到旧保留，最旧关闭的先被淘汰。
// 没有 closed_ts 的已关闭记录（理论上不存在，codec 容忍脏数据）排在最后。
func Prune(doc Document, maxItems int) Document {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if len(doc.Items) <= maxItems {
		return doc
	}

	open := make([]Record, 0, len(doc.Items))
	closed := make([]Record, 0, len(doc.Items))
	for _, r := range doc.Items {
		if r.IsOpen() {
			open = append(open, r)
		} else {
			closed = append(closed, r)
		}
	}

	sort.SliceStable(closed, func(i, j int) bool {
		a, b := closed[i].ClosedTS, closed[j].ClosedTS
		if a == 0 {
			return false
		}
		if b == 0 {
			return true
		}
		return a > b
	})

	keep := maxItems - len(open)
	if keep < 0 {
		keep = 0
	}
	if keep > len(closed) {
		keep = len(closed)
	}
	doc.Items = append(open, closed[:keep]...)
	return doc
}
