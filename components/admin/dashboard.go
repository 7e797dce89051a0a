package admin

import (
	"context"
	"sync"
	"time"
)

// statsSampleLimit bounds the conversation window fetched for stat cards.
// The backend exposes no dedicated stats endpoint, so the dashboard pulls a
// wide page and aggregates client-side, as the product has always done.
const statsSampleLimit = 1000

// DashboardController owns the stat cards and the seven-day series.
type DashboardController struct {
	conversations ConversationSource
	professionals ProfessionalSource
	clock         func() time.Time
	telemetry     Telemetry

	mu     sync.Mutex
	state  FetchState
	stats  DashboardStats
	series []WeeklyPoint
}

// DashboardOptions configures the dashboard controller.
type DashboardOptions struct {
	Conversations ConversationSource
	Professionals ProfessionalSource
	Clock         func() time.Time
	Telemetry     Telemetry
}

// NewDashboardController wires the sources into a controller.
func NewDashboardController(opts DashboardOptions) *DashboardController {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &DashboardController{
		conversations: opts.Conversations,
		professionals: opts.Professionals,
		clock:         clock,
		telemetry:     normalizeTelemetry(opts.Telemetry),
	}
}

// Load fetches conversations and professionals in parallel and recomputes the
// derived stats. A failure on either leg aborts the whole computation; stale
// values from the previous load are kept for display alongside the error.
func (c *DashboardController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state.begin()
	c.mu.Unlock()

	var (
		wg      sync.WaitGroup
		page    ConversationPage
		pageErr error
		profErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		page, pageErr = c.conversations.ListConversations(ctx, ListPage{Limit: statsSampleLimit})
	}()
	go func() {
		defer wg.Done()
		// The directory list is fetched alongside conversations so both legs
		// fail or succeed as one unit; only conversations feed the stats.
		_, profErr = c.professionals.ListProfessionals(ctx, ProfessionalFilter{})
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if pageErr != nil {
		c.state.fail(pageErr)
		c.telemetry.Record(ctx, "admin.dashboard.load_error", map[string]any{"error": pageErr.Error()})
		return pageErr
	}
	if profErr != nil {
		c.state.fail(profErr)
		c.telemetry.Record(ctx, "admin.dashboard.load_error", map[string]any{"error": profErr.Error()})
		return profErr
	}

	now := c.clock()
	c.stats = ComputeDashboardStats(page.Items, DateKey(now))
	c.series = ComputeWeeklySeries(page.Items, now)
	c.state.succeed()
	c.telemetry.Record(ctx, "admin.dashboard.loaded", map[string]any{
		"conversations": len(page.Items),
		"today":         c.stats.TodayCount,
	})
	return nil
}

// DashboardView is the render snapshot for the dashboard page.
type DashboardView struct {
	State  FetchState
	Stats  DashboardStats
	Series []WeeklyPoint
}

// View returns a copy of the current dashboard state.
func (c *DashboardController) View() DashboardView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DashboardView{
		State:  c.state,
		Stats:  c.stats,
		Series: append([]WeeklyPoint{}, c.series...),
	}
}
