package admin

import (
	"context"
	"errors"
	"testing"
)

type stubAnalyticsSource struct {
	states   []StateCount
	problems []ProblemCount
	regions  []RegionProblems

	statesErr   error
	problemsErr error
	regionsErr  error

	lastProblemState string
}

func (s *stubAnalyticsSource) FetchStateRanking(ctx context.Context) ([]StateCount, error) {
	return s.states, s.statesErr
}

func (s *stubAnalyticsSource) FetchProblemRanking(ctx context.Context, state string) ([]ProblemCount, error) {
	s.lastProblemState = state
	return s.problems, s.problemsErr
}

func (s *stubAnalyticsSource) FetchProblemsByRegion(ctx context.Context) ([]RegionProblems, error) {
	return s.regions, s.regionsErr
}

func TestAnalyticsLoadPopulatesAllSections(t *testing.T) {
	source := &stubAnalyticsSource{
		states:   []StateCount{{State: "SP", Count: 12}, {State: "GO", Count: 7}},
		problems: []ProblemCount{{Problem: "Praga", Count: 9}},
		regions: []RegionProblems{
			{State: "SP", Problems: []ProblemCount{{Problem: "Praga", Count: 5}, {Problem: "Doença", Count: 4}}},
		},
	}
	controller := NewRegionAnalyticsController(AnalyticsOptions{Source: source})
	if err := controller.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	view := controller.View()
	if !view.State.Ready() {
		t.Fatalf("expected ready, got %v", view.State.Phase)
	}
	// Backend ordering is preserved as-is.
	if view.States[0].State != "SP" || view.States[1].State != "GO" {
		t.Fatalf("unexpected state order: %+v", view.States)
	}
	if source.lastProblemState != "" {
		t.Fatalf("overall ranking must be fetched without a state filter, got %q", source.lastProblemState)
	}
	if len(view.Regions) != 1 || RegionTotal(view.Regions[0]) != 9 {
		t.Fatalf("unexpected regions: %+v", view.Regions)
	}
}

func TestAnalyticsLoadFailsWhenAnyLegFails(t *testing.T) {
	source := &stubAnalyticsSource{
		states:      []StateCount{{State: "SP", Count: 1}},
		problemsErr: errors.New("aggregate timeout"),
	}
	controller := NewRegionAnalyticsController(AnalyticsOptions{Source: source})
	if err := controller.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	view := controller.View()
	if !view.State.Failed() {
		t.Fatalf("expected failed state, got %v", view.State.Phase)
	}
	if len(view.States) != 0 {
		t.Fatal("a failed fan-out must not publish partial results")
	}
}

func TestMapControllerBuildsMarkers(t *testing.T) {
	source := directoryFixture()
	controller := NewMapController(MapOptions{Source: source})
	if err := controller.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	view := controller.View()
	if view.Center != BrazilCentroid {
		t.Fatalf("expected country centroid as center, got %+v", view.Center)
	}
	if len(view.Markers) != 3 {
		t.Fatalf("expected a marker per entry, got %d", len(view.Markers))
	}
	if view.Markers[0].Coordinate == (Coordinate{}) {
		t.Fatal("expected resolved coordinates")
	}
}

func TestMapControllerLoadError(t *testing.T) {
	source := &stubProfessionalSource{listErr: errors.New("backend down")}
	controller := NewMapController(MapOptions{Source: source})
	if err := controller.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if view := controller.View(); !view.State.Failed() {
		t.Fatalf("expected failed state, got %v", view.State.Phase)
	}
}
