// Package chart renders benchmark reward curves into self-contained HTML
// pages so runs can be eyeballed without any plotting environment.
package chart

import (
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"banditlab/internal/benchmark"
	"banditlab/internal/util"
)

// maxPoints caps the samples plotted per series. Long step budgets would
// otherwise bloat the HTML into tens of megabytes.
const maxPoints = 1000

// Line builds one reward-per-step line chart with a series per player.
func Line(title string, results []benchmark.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "average reward per step",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeShine,
			PageTitle: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	indices := sampleIndices(maxSteps(results), maxPoints)
	steps := make([]string, len(indices))
	for i, idx := range indices {
		steps[i] = strconv.Itoa(idx + 1)
	}
	line.SetXAxis(steps)

	for _, res := range results {
		items := make([]opts.LineData, len(indices))
		for i, idx := range indices {
			if idx < len(res.AvgRewards) {
				items[i] = opts.LineData{Value: res.AvgRewards[idx]}
			} else {
				items[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(res.Player, items)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{
		Smooth: opts.Bool(true),
	}))
	return line
}

// Render writes a standalone HTML page holding the chart for one benchmark.
func Render(w io.Writer, title string, results []benchmark.Result) error {
	page := components.NewPage()
	page.AddCharts(Line(title, results))
	return page.Render(w)
}

// WriteFile renders the chart page into path, truncating any previous file.
func WriteFile(path, title string, results []benchmark.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, &err, "chart file")
	return Render(f, title, results)
}

func maxSteps(results []benchmark.Result) int {
	steps := 0
	for _, res := range results {
		if len(res.AvgRewards) > steps {
			steps = len(res.AvgRewards)
		}
	}
	return steps
}

// sampleIndices picks the step indices to plot: every stride-th step, with
// the final step always included, at most max entries in total.
func sampleIndices(steps, max int) []int {
	if steps <= 0 {
		return nil
	}
	if max <= 0 || steps <= max {
		indices := make([]int, steps)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}
	stride := (steps + max - 1) / max
	indices := make([]int, 0, max)
	for i := 0; i < steps; i += stride {
		indices = append(indices, i)
	}
	indices[len(indices)-1] = steps - 1
	return indices
}
