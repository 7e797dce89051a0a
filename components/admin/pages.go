package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Pages renders every admin page from its controller's view model. Templates
// receive presentation-ready data only; all aggregation happens upstream.
type Pages struct {
	Dashboard     *DashboardController
	Conversations *ConversationListController
	Professionals *ProfessionalDirectoryController
	Settings      *SettingsController
	Analytics     *RegionAnalyticsController
	Map           *MapController
	Activity      ActivityFeed

	renderer Renderer
	charts   *ChartRenderer
}

// PagesOptions wires controllers and rendering collaborators.
type PagesOptions struct {
	Dashboard     *DashboardController
	Conversations *ConversationListController
	Professionals *ProfessionalDirectoryController
	Settings      *SettingsController
	Analytics     *RegionAnalyticsController
	Map           *MapController
	Activity      ActivityFeed
	Renderer      Renderer
	Charts        *ChartRenderer
}

// NewPages builds the page renderer.
func NewPages(opts PagesOptions) (*Pages, error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("admin: pages require a renderer")
	}
	charts := opts.Charts
	if charts == nil {
		charts = NewChartRenderer()
	}
	return &Pages{
		Dashboard:     opts.Dashboard,
		Conversations: opts.Conversations,
		Professionals: opts.Professionals,
		Settings:      opts.Settings,
		Analytics:     opts.Analytics,
		Map:           opts.Map,
		Activity:      normalizeActivity(opts.Activity),
		renderer:      opts.Renderer,
		charts:        charts,
	}, nil
}

// RenderDashboard loads and renders the dashboard page. Fetch errors surface
// inside the page, not as a render failure.
func (p *Pages) RenderDashboard(ctx context.Context) (string, error) {
	_ = p.Dashboard.Load(ctx)
	view := p.Dashboard.View()
	weekly, err := p.charts.WeeklyChart(view.Series)
	if err != nil {
		return "", fmt.Errorf("admin: render weekly chart: %w", err)
	}
	return p.renderer.Render("dashboard", map[string]any{
		"title":        "Dashboard",
		"view":         view,
		"weekly_chart": weekly,
		"activity":     p.Activity.Recent(ctx, 10),
	})
}

// RenderConversations loads the requested page (clamped) and, when selected is
// non-zero, the transcript detail for that conversation.
func (p *Pages) RenderConversations(ctx context.Context, page int, selected int64) (string, error) {
	if page > 0 {
		_ = p.Conversations.GoToPage(ctx, page)
	} else {
		_ = p.Conversations.Load(ctx)
	}
	if selected > 0 {
		_ = p.Conversations.Select(ctx, selected)
	} else {
		p.Conversations.CloseDetail()
	}
	view := p.Conversations.View()
	return p.renderer.Render("conversations", map[string]any{
		"title":     "Conversas",
		"view":      view,
		"prev_page": view.Page - 1,
		"next_page": view.Page + 1,
	})
}

// RenderProfessionals applies the filters and renders the directory page.
func (p *Pages) RenderProfessionals(ctx context.Context, filter ProfessionalFilter, flash string) (string, error) {
	_ = p.Professionals.ApplyFilter(ctx, filter)
	view := p.Professionals.View()
	return p.renderer.Render("professionals", map[string]any{
		"title": "Profissionais",
		"view":  view,
		"flash": flash,
	})
}

// regionCard carries a precomputed total for the template.
type regionCard struct {
	State    string
	Problems []ProblemCount
	Total    int
}

// RenderAnalytics loads the aggregates and renders the regional page.
func (p *Pages) RenderAnalytics(ctx context.Context) (string, error) {
	_ = p.Analytics.Load(ctx)
	view := p.Analytics.View()
	stateChart, err := p.charts.StateRankingChart(view.States)
	if err != nil {
		return "", fmt.Errorf("admin: render state chart: %w", err)
	}
	problemChart, err := p.charts.ProblemRankingChart(view.Problems)
	if err != nil {
		return "", fmt.Errorf("admin: render problem chart: %w", err)
	}
	cards := make([]regionCard, len(view.Regions))
	for i, region := range view.Regions {
		cards[i] = regionCard{
			State:    region.State,
			Problems: region.Problems,
			Total:    RegionTotal(region),
		}
	}
	viewData := map[string]any{
		"State":   view.State,
		"Regions": cards,
	}
	return p.renderer.Render("analytics", map[string]any{
		"title":         "Análise Regional",
		"view":          viewData,
		"state_chart":   stateChart,
		"problem_chart": problemChart,
	})
}

// RenderMap loads the directory and renders the marker map.
func (p *Pages) RenderMap(ctx context.Context) (string, error) {
	_ = p.Map.Load(ctx)
	view := p.Map.View()
	markers := make([]map[string]any, len(view.Markers))
	for i, m := range view.Markers {
		markers[i] = map[string]any{
			"lat":         m.Coordinate.Lat,
			"lon":         m.Coordinate.Lon,
			"name":        m.Name,
			"type":        m.Type,
			"city":        m.City,
			"state":       m.State,
			"phone":       m.Phone,
			"specialties": m.Specialties,
		}
	}
	markersJSON, err := json.Marshal(markers)
	if err != nil {
		return "", fmt.Errorf("admin: encode map markers: %w", err)
	}
	return p.renderer.Render("map", map[string]any{
		"title":        "Mapa",
		"view":         view,
		"markers_json": string(markersJSON),
	})
}

// RenderSettings loads the config entries and renders the settings form.
func (p *Pages) RenderSettings(ctx context.Context, flash string) (string, error) {
	_ = p.Settings.Load(ctx)
	view := p.Settings.View()
	return p.renderer.Render("settings", map[string]any{
		"title":                  "Configurações",
		"view":                   view,
		"flash":                  flash,
		"knowledge_sources_text": strings.Join(view.Fields.KnowledgeSources, "\n"),
	})
}
