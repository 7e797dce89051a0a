package admin

import (
	"context"
	"sync"
)

// MapController owns the professional map page: one unfiltered directory
// fetch, markers derived via the centroid/jitter mapping, nothing else.
type MapController struct {
	source    ProfessionalSource
	telemetry Telemetry

	mu      sync.Mutex
	state   FetchState
	markers []MapMarker
}

// MapOptions configures the map controller.
type MapOptions struct {
	Source    ProfessionalSource
	Telemetry Telemetry
}

// NewMapController wires the directory source into the map page.
func NewMapController(opts MapOptions) *MapController {
	return &MapController{
		source:    opts.Source,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
}

// Load fetches the full directory and recomputes every marker.
func (c *MapController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state.begin()
	c.mu.Unlock()

	professionals, err := c.source.ListProfessionals(ctx, ProfessionalFilter{})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.fail(err)
		c.telemetry.Record(ctx, "admin.map.load_error", map[string]any{"error": err.Error()})
		return err
	}
	c.markers = MarkersForProfessionals(professionals)
	c.state.succeed()
	return nil
}

// MapView is the render snapshot for the map page.
type MapView struct {
	State   FetchState
	Center  Coordinate
	Markers []MapMarker
}

// View returns a copy of the current map state.
func (c *MapController) View() MapView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return MapView{
		State:   c.state,
		Center:  BrazilCentroid,
		Markers: append([]MapMarker{}, c.markers...),
	}
}
