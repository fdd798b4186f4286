package experiment

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/boristopalov/mdpsim/pkg/core"
)

// RenderChart writes an HTML page plotting each episode's return and the
// running success rate.
func RenderChart(w io.Writer, title string, results []core.EpisodeResult) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
	)

	episodes := make([]string, 0, len(results))
	returns := make([]opts.LineData, 0, len(results))
	running := make([]opts.LineData, 0, len(results))
	successes := 0
	for i, r := range results {
		episodes = append(episodes, fmt.Sprintf("%d", r.Episode))
		returns = append(returns, opts.LineData{Value: int(r.Return)})
		if r.Terminal && r.Return > 0 {
			successes++
		}
		running = append(running, opts.LineData{Value: float64(successes) / float64(i+1)})
	}

	line.SetXAxis(episodes).
		AddSeries("return", returns).
		AddSeries("success rate", running)

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}

// WriteChart renders the chart into path, creating or truncating it.
func WriteChart(path, title string, results []core.EpisodeResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := RenderChart(f, title, results); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}
