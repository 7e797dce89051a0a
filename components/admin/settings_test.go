package admin

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type stubConfigSource struct {
	entries  []ConfigEntry
	listErr  error
	failKeys map[string]error

	mu     sync.Mutex
	writes map[string]string
}

func (s *stubConfigSource) ListConfig(ctx context.Context) ([]ConfigEntry, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.entries, nil
}

func (s *stubConfigSource) PutConfig(ctx context.Context, key, value string) error {
	if err := s.failKeys[key]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes == nil {
		s.writes = map[string]string{}
	}
	s.writes[key] = value
	return nil
}

func TestSettingsLoadMapsKnownKeys(t *testing.T) {
	source := &stubConfigSource{entries: []ConfigEntry{
		{Key: "whatsapp_number_id", Value: "12345"},
		{Key: "system_prompt", Value: "Seja objetivo."},
		{Key: "knowledge_sources", Value: `["EMBRAPA","SciELO"]`},
		{Key: "webhook_url", Value: "https://example.com/hook"},
		{Key: "unrelated_key", Value: "ignored"},
	}}
	controller := NewSettingsController(SettingsOptions{Source: source, APIBase: "http://localhost:8000/api/v1"})
	if err := controller.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	view := controller.View()
	if view.Fields.WhatsAppNumberID != "12345" {
		t.Fatalf("unexpected number id: %s", view.Fields.WhatsAppNumberID)
	}
	if view.Fields.SystemPrompt != "Seja objetivo." {
		t.Fatalf("unexpected prompt: %s", view.Fields.SystemPrompt)
	}
	if len(view.Fields.KnowledgeSources) != 2 || view.Fields.KnowledgeSources[1] != "SciELO" {
		t.Fatalf("unexpected sources: %v", view.Fields.KnowledgeSources)
	}
	if view.Fields.WebhookURL != "https://example.com/hook" {
		t.Fatalf("stored webhook must override the derived one, got %s", view.Fields.WebhookURL)
	}
}

func TestSettingsLoadKeepsSourcesOnMalformedJSON(t *testing.T) {
	source := &stubConfigSource{entries: []ConfigEntry{
		{Key: "knowledge_sources", Value: "not-json"},
	}}
	controller := NewSettingsController(SettingsOptions{Source: source})
	if err := controller.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	view := controller.View()
	if len(view.Fields.KnowledgeSources) != len(defaultKnowledgeSources) {
		t.Fatalf("expected defaults kept, got %v", view.Fields.KnowledgeSources)
	}
}

func TestSettingsDefaultsBeforeFirstLoad(t *testing.T) {
	controller := NewSettingsController(SettingsOptions{Source: &stubConfigSource{}, APIBase: "http://localhost:8000/api/v1"})
	view := controller.View()
	if view.Fields.SystemPrompt == "" {
		t.Fatal("expected a default system prompt")
	}
	if view.Fields.WhatsAppVerifyToken != "agenteagro_token" {
		t.Fatalf("unexpected default verify token: %s", view.Fields.WhatsAppVerifyToken)
	}
	if view.Fields.WebhookURL != "http://localhost:8000/api/v1/whatsapp/webhook" {
		t.Fatalf("unexpected derived webhook: %s", view.Fields.WebhookURL)
	}
}

func TestDeriveWebhookURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"http://localhost:8000/api/v1", "http://localhost:8000/api/v1/whatsapp/webhook"},
		{"https://api.agenteagro.com.br/api/v1", "https://api.agenteagro.com.br/api/v1/whatsapp/webhook"},
		{"https://api.agenteagro.com.br/api/v1/", "https://api.agenteagro.com.br/api/v1/whatsapp/webhook"},
		{"", "http://localhost:8000/api/v1/whatsapp/webhook"},
	}
	for _, tc := range cases {
		if got := DeriveWebhookURL(tc.base); got != tc.want {
			t.Fatalf("DeriveWebhookURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestSettingsSaveAllWritesSixKeys(t *testing.T) {
	source := &stubConfigSource{}
	controller := NewSettingsController(SettingsOptions{Source: source})
	controller.Update(SettingsFields{
		SystemPrompt:        "prompt",
		WhatsAppNumberID:    "111",
		WhatsAppAccessToken: "token",
		WhatsAppVerifyToken: "verify",
		OpenAIAPIKey:        "sk-xxx",
		KnowledgeSources:    []string{"EMBRAPA"},
	})
	report := controller.SaveAll(context.Background())
	if report.Outcome() != SaveAllSucceeded {
		t.Fatalf("expected all saved, got %+v", report)
	}
	if len(source.writes) != 6 {
		t.Fatalf("expected 6 writes, got %d: %v", len(source.writes), source.writes)
	}
	if _, ok := source.writes["webhook_url"]; ok {
		t.Fatal("webhook_url is derived and must not be written")
	}
	if source.writes["knowledge_sources"] != `["EMBRAPA"]` {
		t.Fatalf("expected sources serialized as JSON, got %s", source.writes["knowledge_sources"])
	}
}

func TestSettingsSaveAllReportsPartialFailure(t *testing.T) {
	source := &stubConfigSource{failKeys: map[string]error{
		"openai_api_key": errors.New("500 internal"),
	}}
	controller := NewSettingsController(SettingsOptions{Source: source})
	report := controller.SaveAll(context.Background())
	if report.Outcome() != SavePartialFailure {
		t.Fatalf("expected partial failure, got %+v", report)
	}
	if len(report.Failed) != 1 || report.Failed[0].Key != "openai_api_key" {
		t.Fatalf("unexpected failures: %+v", report.Failed)
	}
	if len(report.Saved) != 5 {
		t.Fatalf("expected 5 saved keys, got %v", report.Saved)
	}
	msg := report.Message()
	if msg == (SaveReport{}).Message() {
		t.Fatalf("partial failure message must differ from full success, got %q", msg)
	}
}

func TestSettingsSaveAllReportsTotalFailure(t *testing.T) {
	failure := errors.New("connection refused")
	source := &stubConfigSource{failKeys: map[string]error{
		"system_prompt":         failure,
		"whatsapp_number_id":    failure,
		"whatsapp_access_token": failure,
		"whatsapp_verify_token": failure,
		"openai_api_key":        failure,
		"knowledge_sources":     failure,
	}}
	controller := NewSettingsController(SettingsOptions{Source: source})
	report := controller.SaveAll(context.Background())
	if report.Outcome() != SaveAllFailed {
		t.Fatalf("expected total failure, got %+v", report)
	}
}

func TestKnowledgeSourceEditing(t *testing.T) {
	controller := NewSettingsController(SettingsOptions{Source: &stubConfigSource{}})
	controller.Update(SettingsFields{KnowledgeSources: []string{"EMBRAPA"}})

	controller.AddKnowledgeSource("  MAPA ")
	controller.AddKnowledgeSource("EMBRAPA") // duplicate
	controller.AddKnowledgeSource("   ")     // blank

	view := controller.View()
	if len(view.Fields.KnowledgeSources) != 2 || view.Fields.KnowledgeSources[1] != "MAPA" {
		t.Fatalf("unexpected sources: %v", view.Fields.KnowledgeSources)
	}

	controller.RemoveKnowledgeSource("EMBRAPA")
	view = controller.View()
	if len(view.Fields.KnowledgeSources) != 1 || view.Fields.KnowledgeSources[0] != "MAPA" {
		t.Fatalf("unexpected sources after removal: %v", view.Fields.KnowledgeSources)
	}
}

func TestSettingsViewCarriesLabels(t *testing.T) {
	controller := NewSettingsController(SettingsOptions{Source: &stubConfigSource{}})
	view := controller.View()
	for _, key := range []string{
		KeyWhatsAppNumberID, KeyWhatsAppAccessToken, KeyWhatsAppVerifyToken,
		KeyOpenAIAPIKey, KeySystemPrompt, KeyWebhookURL, KeyKnowledgeSources,
	} {
		if view.Labels[key] == "" {
			t.Fatalf("missing label for %s", key)
		}
	}
}
