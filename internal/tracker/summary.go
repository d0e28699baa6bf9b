package tracker

// Stats 是台账的聚合统计。比率与均值只统计已关闭的记录：
// 未关闭记录的 excursion 还没有定稿。
type Stats struct {
	Total   int `json:"total"`
	Open    int `json:"open"`
	TP1     int `json:"tp1"`
	Stop    int `json:"stop"`
	Expired int `json:"expired"`
	Closed  int `json:"closed"`

	TP1Rate  float64 `json:"tp1_rate"`
	StopRate float64 `json:"stop_rate"`
	AvgMFER  float64 `json:"avg_mfe_r"`
	AvgMAER  float64 `json:"avg_mae_r"`
}

// Summarize 按 outcome 切分记录并计算关闭率与平均 R 倍数。
func Summarize(records []Record) Stats {
	var s Stats
	var sumMFE, sumMAE float64
	for _, r := range records {
		s.Total++
		switch r.Outcome {
		case OutcomeOpen:
			s.Open++
			continue
		case OutcomeTP1:
			s.TP1++
		case OutcomeStop:
			s.Stop++
		case OutcomeExpired:
			s.Expired++
		default:
			continue
		}
		s.Closed++
		sumMFE += r.MFER
		sumMAE += r.MAER
	}
	if s.Closed > 0 {
		s.TP1Rate = float64(s.TP1) / float64(s.Closed)
		s.StopRate = float64(s.Stop) / float64(s.Closed)
		s.AvgMFER = sumMFE / float64(s.Closed)
		s.AvgMAER = sumMAE / float64(s.Closed)
	}
	return s
}
