package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/magatfairy/crawlstats/internal/analysis"
)

// RenderCharts assembles the dashboard for one result document: a per-track
// behavior scatter, population bars per stimulus window, active-track
// concurrency bars and the stimulus windows themselves.
func RenderCharts(res *analysis.Result) ([]byte, error) {
	page := components.NewPage()
	page.AddCharts(
		trackScatter(res),
		populationBars(res),
		concurrencyBars(res),
		stimulusBars(res),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// trackScatter plots turn rate against fraction reversing per track, colored
// by reversal count.
func trackScatter(res *analysis.Result) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(res.Tracks))
	maxRev := 0.0
	for _, tr := range res.Tracks {
		if float64(tr.NumReversals) > maxRev {
			maxRev = float64(tr.NumReversals)
		}
		data = append(data, opts.ScatterData{
			Name:  fmt.Sprintf("track %d", tr.TrackNum),
			Value: []interface{}{tr.TurnRate, tr.FractionReversing, tr.NumReversals},
		})
	}
	if maxRev == 0 {
		maxRev = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Crawl Analysis", Theme: "dark", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Track Behavior", Subtitle: fmt.Sprintf("file=%s tracks=%d", res.File, len(res.Tracks))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Turn rate (/min)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Fraction reversing", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxRev),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)

	scatter.AddSeries("tracks", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter
}

// populationBars charts mean reversal count and mean turn rate per stimulus
// window across the population.
func populationBars(res *analysis.Result) *charts.Bar {
	ids := make([]int, 0, len(res.PopulationWindows))
	for id := range res.PopulationWindows {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	x := make([]string, 0, len(ids))
	revMeans := make([]opts.BarData, 0, len(ids))
	turnMeans := make([]opts.BarData, 0, len(ids))
	for _, id := range ids {
		pop := res.PopulationWindows[id]
		x = append(x, fmt.Sprintf("window %d", id))
		revMeans = append(revMeans, opts.BarData{Value: pop.Reversals.Mean})
		turnMeans = append(turnMeans, opts.BarData{Value: pop.TurnRatesPerMin.Mean})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Population by Stimulus Window"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("mean reversals", revMeans,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		).
		AddSeries("mean turn rate (/min)", turnMeans)
	return bar
}

// concurrencyBars charts simultaneously active tracks over time.
func concurrencyBars(res *analysis.Result) *charts.Bar {
	x := make([]string, 0, len(res.Concurrency))
	active := make([]opts.BarData, 0, len(res.Concurrency))
	for _, bin := range res.Concurrency {
		x = append(x, fmt.Sprintf("%.0fs", bin.BinStart))
		active = append(active, opts.BarData{Value: bin.ActiveTracks})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Active Tracks Over Time"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Bin start"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Active tracks"}),
	)
	bar.SetXAxis(x).AddSeries("active tracks", active)
	return bar
}

// stimulusBars charts the derived stimulus windows by length.
func stimulusBars(res *analysis.Result) *charts.Bar {
	x := make([]string, 0, len(res.Windows))
	lengths := make([]opts.BarData, 0, len(res.Windows))
	for _, w := range res.Windows {
		x = append(x, fmt.Sprintf("window %d", w.ID))
		lengths = append(lengths, opts.BarData{Value: w.End - w.Start})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Stimulus Windows", Subtitle: "seconds on per window"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("window length (s)", lengths,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}
