package admin

import (
	"bytes"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const chartHeight = "360px"

// ChartRenderer turns derived series into server-rendered echarts fragments.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// ChartOption customizes the renderer.
type ChartOption func(*ChartRenderer)

// WithChartCache injects a render cache; pass nil to disable memoization.
func WithChartCache(cache RenderCache) ChartOption {
	return func(r *ChartRenderer) { r.cache = cache }
}

// WithChartTheme sets the echarts theme.
func WithChartTheme(theme string) ChartOption {
	return func(r *ChartRenderer) { r.theme = theme }
}

// WithChartAssetsHost rewrites the assets host so echarts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartOption {
	return func(r *ChartRenderer) { r.assetsHost = host }
}

// NewChartRenderer builds a renderer with a five-minute shared cache.
func NewChartRenderer(options ...ChartOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: NewChartCache(5 * time.Minute),
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// WeeklyChart renders the seven-day conversation/problem bar chart.
func (r *ChartRenderer) WeeklyChart(points []WeeklyPoint) (string, error) {
	render := func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions("Volume de Mensagens e Problemas Identificados", "Últimos 7 dias")...)
		labels := make([]string, len(points))
		conversations := make([]opts.BarData, len(points))
		problems := make([]opts.BarData, len(points))
		for i, point := range points {
			labels[i] = point.DayLabel
			conversations[i] = opts.BarData{Value: point.ConversationCount}
			problems[i] = opts.BarData{Value: point.ProblemCount}
		}
		bar.SetXAxis(labels)
		bar.AddSeries("Conversas", conversations)
		bar.AddSeries("Problemas Identificados", problems)
		return renderFragment(bar)
	}
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(cacheKey("weekly", points), render)
}

// StateRankingChart renders the contact-volume-per-state bar chart in the
// order the backend returned.
func (r *ChartRenderer) StateRankingChart(states []StateCount) (string, error) {
	render := func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions("Ranking de Estados", "Volume de Contatos")...)
		labels := make([]string, len(states))
		counts := make([]opts.BarData, len(states))
		for i, row := range states {
			labels[i] = row.State
			counts[i] = opts.BarData{Name: row.State, Value: row.Count}
		}
		bar.SetXAxis(labels)
		bar.AddSeries("Conversas", counts)
		return renderFragment(bar)
	}
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(cacheKey("states", states), render)
}

// ProblemRankingChart renders the overall problem ranking as a pie chart.
func (r *ChartRenderer) ProblemRankingChart(problems []ProblemCount) (string, error) {
	render := func() (string, error) {
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalOptions("Problemas Mais Frequentes", "")...)
		data := make([]opts.PieData, len(problems))
		for i, row := range problems {
			data[i] = opts.PieData{Name: row.Problem, Value: row.Count}
		}
		pie.AddSeries("Problemas", data)
		return renderFragment(pie)
	}
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(cacheKey("problems", problems), render)
}

func (r *ChartRenderer) globalOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: chartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderFragment(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
