package admin

import (
	"context"
	"sync"
)

// RegionAnalyticsController owns the regional analysis page: the state
// ranking, the overall problem ranking, and the per-region breakdown. One
// fan-out fetch on mount, no filters, no pagination; results render as the
// backend orders them.
type RegionAnalyticsController struct {
	source    AnalyticsSource
	telemetry Telemetry

	mu       sync.Mutex
	state    FetchState
	states   []StateCount
	problems []ProblemCount
	regions  []RegionProblems
}

// AnalyticsOptions configures the analytics controller.
type AnalyticsOptions struct {
	Source    AnalyticsSource
	Telemetry Telemetry
}

// NewRegionAnalyticsController wires the source into a controller.
func NewRegionAnalyticsController(opts AnalyticsOptions) *RegionAnalyticsController {
	return &RegionAnalyticsController{
		source:    opts.Source,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
}

// Load fetches the three aggregates in parallel with all-or-nothing joining:
// any leg failing puts the whole page in the failed state.
func (c *RegionAnalyticsController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state.begin()
	c.mu.Unlock()

	var (
		wg          sync.WaitGroup
		states      []StateCount
		problems    []ProblemCount
		regions     []RegionProblems
		statesErr   error
		problemsErr error
		regionsErr  error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		states, statesErr = c.source.FetchStateRanking(ctx)
	}()
	go func() {
		defer wg.Done()
		problems, problemsErr = c.source.FetchProblemRanking(ctx, "")
	}()
	go func() {
		defer wg.Done()
		regions, regionsErr = c.source.FetchProblemsByRegion(ctx)
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, err := range []error{statesErr, problemsErr, regionsErr} {
		if err != nil {
			c.state.fail(err)
			c.telemetry.Record(ctx, "admin.analytics.load_error", map[string]any{"error": err.Error()})
			return err
		}
	}
	c.states = states
	c.problems = problems
	c.regions = regions
	c.state.succeed()
	return nil
}

// RegionTotal sums the problem counts of one region card.
func RegionTotal(region RegionProblems) int {
	total := 0
	for _, p := range region.Problems {
		total += p.Count
	}
	return total
}

// AnalyticsView is the render snapshot for the regional analysis page.
type AnalyticsView struct {
	State    FetchState
	States   []StateCount
	Problems []ProblemCount
	Regions  []RegionProblems
}

// View returns a copy of the current analytics state.
func (c *RegionAnalyticsController) View() AnalyticsView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return AnalyticsView{
		State:    c.state,
		States:   append([]StateCount{}, c.states...),
		Problems: append([]ProblemCount{}, c.problems...),
		Regions:  append([]RegionProblems{}, c.regions...),
	}
}
