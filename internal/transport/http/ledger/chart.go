package ledgerhttp

import (
	"fmt"

	"traq/internal/tracker"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// buildOutcomePage 渲染账本概览页：结果分布饼图 + 已平仓记录的
// MFE/MAE 散点图（单位都是 R）。
func buildOutcomePage(records []tracker.Record) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Setup Outcomes"
	page.AddCharts(buildOutcomePie(records), buildExcursionScatter(records))
	return page
}

func buildOutcomePie(records []tracker.Record) *charts.Pie {
	counts := map[tracker.Outcome]int{}
	for _, rec := range records {
		counts[rec.Outcome]++
	}
	order := []tracker.Outcome{
		tracker.OutcomeOpen,
		tracker.OutcomeTP1,
		tracker.OutcomeStop,
		tracker.OutcomeExpired,
	}
	data := make([]opts.PieData, 0, len(order))
	for _, o := range order {
		if counts[o] == 0 {
			continue
		}
		data = append(data, opts.PieData{Name: string(o), Value: counts[o]})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Outcome distribution",
			Subtitle: fmt.Sprintf("%d tracked setups", len(records)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Left: "right"}),
	)
	pie.AddSeries("outcomes", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"35%", "65%"}}),
	)
	return pie
}

func buildExcursionScatter(records []tracker.Record) *charts.Scatter {
	series := map[tracker.Outcome][]opts.ScatterData{}
	for _, rec := range records {
		if rec.IsOpen() {
			continue
		}
		series[rec.Outcome] = append(series[rec.Outcome], opts.ScatterData{
			Name:       rec.Key,
			Value:      []interface{}{rec.MAER, rec.MFER},
			SymbolSize: 10,
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Closed setups: MFE vs MAE",
			Subtitle: "x = max adverse excursion (R), y = max favorable excursion (R)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Left: "right"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "MAE (R)", Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "MFE (R)", Type: "value", Scale: opts.Bool(true)}),
	)
	for _, o := range []tracker.Outcome{tracker.OutcomeTP1, tracker.OutcomeStop, tracker.OutcomeExpired} {
		if len(series[o]) == 0 {
			continue
		}
		scatter.AddSeries(string(o), series[o])
	}
	return scatter
}
