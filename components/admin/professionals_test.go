package admin

import (
	"context"
	"errors"
	"testing"
)

type stubProfessionalSource struct {
	items     []Professional
	listErr   error
	createErr error
	deleteErr error

	listCalls  int
	lastFilter ProfessionalFilter
	created    []ProfessionalInput
	deleted    []int64
}

func (s *stubProfessionalSource) ListProfessionals(ctx context.Context, filter ProfessionalFilter) ([]Professional, error) {
	s.listCalls++
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []Professional
	for _, p := range s.items {
		if filter.State != "" && p.State != filter.State {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProfessionalSource) CreateProfessional(ctx context.Context, input ProfessionalInput) (Professional, error) {
	if s.createErr != nil {
		return Professional{}, s.createErr
	}
	s.created = append(s.created, input)
	created := Professional{
		ID:    int64(len(s.items) + 1),
		Name:  input.Name,
		Type:  input.Type,
		State: input.State,
		City:  input.City,
	}
	s.items = append(s.items, created)
	return created, nil
}

func (s *stubProfessionalSource) DeleteProfessional(ctx context.Context, id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func directoryFixture() *stubProfessionalSource {
	return &stubProfessionalSource{
		items: []Professional{
			{ID: 1, Name: "Carlos", Type: "Agrônomo", State: "SP", City: "Campinas"},
			{ID: 2, Name: "Ana", Type: "Veterinário", State: "GO", City: "Goiânia"},
			{ID: 3, Name: "João", Type: "Agrônomo", State: "GO", City: "Rio Verde"},
		},
	}
}

func TestDirectoryApplyFilterFetchesOnce(t *testing.T) {
	source := directoryFixture()
	controller := NewProfessionalDirectoryController(DirectoryOptions{Source: source})

	filter := ProfessionalFilter{State: "GO", Type: "Agrônomo"}
	if err := controller.ApplyFilter(context.Background(), filter); err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	if source.listCalls != 1 {
		t.Fatalf("expected exactly one fetch, got %d", source.listCalls)
	}
	if source.lastFilter != filter {
		t.Fatalf("expected filter forwarded, got %+v", source.lastFilter)
	}
	view := controller.View()
	if len(view.Items) != 1 || view.Items[0].Name != "João" {
		t.Fatalf("unexpected filtered items: %+v", view.Items)
	}
	if view.Filter != filter {
		t.Fatalf("expected filter reflected in view, got %+v", view.Filter)
	}
}

func TestDirectoryCreateRefetches(t *testing.T) {
	source := directoryFixture()
	feed := NewMemoryActivityFeed(10)
	controller := NewProfessionalDirectoryController(DirectoryOptions{Source: source, Activity: feed})

	input := ProfessionalInput{Name: "Maria", Type: "Zootecnista", State: "MG", City: "Uberaba"}
	if err := controller.Create(context.Background(), input); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(source.created) != 1 || source.created[0].Name != "Maria" {
		t.Fatalf("expected create forwarded, got %+v", source.created)
	}
	if source.listCalls != 1 {
		t.Fatalf("expected a refetch after create, got %d calls", source.listCalls)
	}
	recent := feed.Recent(context.Background(), 5)
	if len(recent) != 1 || recent[0].Action != "cadastrou profissional" {
		t.Fatalf("expected activity recorded, got %+v", recent)
	}
}

func TestDirectoryCreateRejectedByValidator(t *testing.T) {
	source := directoryFixture()
	controller := NewProfessionalDirectoryController(DirectoryOptions{
		Source:    source,
		Validator: NewJSONSchemaValidator(),
	})
	err := controller.Create(context.Background(), ProfessionalInput{
		Name:  "Maria",
		Type:  "Zootecnista",
		State: "São Paulo", // must be the two-letter code
		City:  "Uberaba",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(source.created) != 0 || source.listCalls != 0 {
		t.Fatal("expected no request before validation passes")
	}
}

func TestDirectoryDeleteRequiresConfirmation(t *testing.T) {
	source := directoryFixture()
	controller := NewProfessionalDirectoryController(DirectoryOptions{Source: source})

	err := controller.Delete(context.Background(), 1, false)
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if len(source.deleted) != 0 {
		t.Fatal("expected no delete request without confirmation")
	}

	if err := controller.Delete(context.Background(), 1, true); err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if len(source.deleted) != 1 || source.deleted[0] != 1 {
		t.Fatalf("expected delete of id 1, got %v", source.deleted)
	}
	if source.listCalls != 1 {
		t.Fatalf("expected a refetch after delete, got %d calls", source.listCalls)
	}
}

func TestDirectoryLoadError(t *testing.T) {
	source := &stubProfessionalSource{listErr: errors.New("backend down")}
	controller := NewProfessionalDirectoryController(DirectoryOptions{Source: source})
	if err := controller.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if view := controller.View(); !view.State.Failed() {
		t.Fatalf("expected failed state, got %v", view.State.Phase)
	}
}

func TestDirectoryViewExposesFormVocabulary(t *testing.T) {
	controller := NewProfessionalDirectoryController(DirectoryOptions{Source: directoryFixture()})
	view := controller.View()
	if len(view.Types) != 6 {
		t.Fatalf("expected 6 profession types, got %d", len(view.Types))
	}
	if len(view.States) != 27 {
		t.Fatalf("expected 27 state codes, got %d", len(view.States))
	}
}
