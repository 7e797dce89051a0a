package agroapi

import (
	"context"
	"testing"

	admin "github.com/agenteagro/admin/components/admin"
)

func TestMockClientPaginatesNewestFirst(t *testing.T) {
	client := NewMockClient()
	page, err := client.ListConversations(context.Background(), admin.ListPage{Limit: 2})
	if err != nil {
		t.Fatalf("list conversations: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("expected 5 fixtures, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page.Items))
	}
	if page.Items[0].CreatedAt < page.Items[1].CreatedAt {
		t.Fatalf("expected newest first, got %+v", page.Items)
	}

	rest, err := client.ListConversations(context.Background(), admin.ListPage{Skip: 4, Limit: 2})
	if err != nil {
		t.Fatalf("list tail: %v", err)
	}
	if len(rest.Items) != 1 {
		t.Fatalf("expected the single last item, got %d", len(rest.Items))
	}
}

func TestMockClientDirectoryLifecycle(t *testing.T) {
	client := NewMockClient()
	ctx := context.Background()

	created, err := client.CreateProfessional(ctx, admin.ProfessionalInput{
		Name: "Maria", Type: "Zootecnista", State: "MG", City: "Uberaba",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected generated id")
	}

	filtered, err := client.ListProfessionals(ctx, admin.ProfessionalFilter{State: "MG"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "Maria" {
		t.Fatalf("unexpected filtered list: %+v", filtered)
	}

	if err := client.DeleteProfessional(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := client.DeleteProfessional(ctx, created.ID); err == nil {
		t.Fatal("expected error deleting a missing entry")
	}
}

func TestMockClientAnalyticsAggregates(t *testing.T) {
	client := NewMockClient()
	ctx := context.Background()

	states, err := client.FetchStateRanking(ctx)
	if err != nil {
		t.Fatalf("state ranking: %v", err)
	}
	if len(states) == 0 || states[0].State != "SP" {
		t.Fatalf("expected SP on top of the fixture ranking, got %+v", states)
	}
	for i := 1; i < len(states); i++ {
		if states[i].Count > states[i-1].Count {
			t.Fatalf("expected descending counts, got %+v", states)
		}
	}

	all, err := client.FetchProblemRanking(ctx, "")
	if err != nil {
		t.Fatalf("problem ranking: %v", err)
	}
	sp, err := client.FetchProblemRanking(ctx, "SP")
	if err != nil {
		t.Fatalf("filtered ranking: %v", err)
	}
	if len(sp) >= len(all) && len(all) > 1 {
		t.Fatalf("expected state filter to narrow the ranking: all=%d sp=%d", len(all), len(sp))
	}

	regions, err := client.FetchProblemsByRegion(ctx)
	if err != nil {
		t.Fatalf("regions: %v", err)
	}
	if len(regions) == 0 {
		t.Fatal("expected region groups")
	}
}

func TestMockClientConfigRoundTrip(t *testing.T) {
	client := NewMockClient()
	ctx := context.Background()

	if err := client.PutConfig(ctx, "system_prompt", "novo prompt"); err != nil {
		t.Fatalf("put: %v", err)
	}
	entries, err := client.ListConfig(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, entry := range entries {
		if entry.Key == "system_prompt" && entry.Value == "novo prompt" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected upserted value, got %+v", entries)
	}
}
