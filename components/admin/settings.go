package admin

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/ettle/strcase"
)

// Recognized configuration keys.
const (
	KeyWhatsAppNumberID    = "whatsapp_number_id"
	KeyWhatsAppAccessToken = "whatsapp_access_token"
	KeyWhatsAppVerifyToken = "whatsapp_verify_token"
	KeyOpenAIAPIKey        = "openai_api_key"
	KeySystemPrompt        = "system_prompt"
	KeyWebhookURL          = "webhook_url"
	KeyKnowledgeSources    = "knowledge_sources"
)

const defaultSystemPrompt = `Você é o AgenteAgro, um assistente especialista em agricultura e pecuária.
Sua missão é ajudar produtores a identificar pragas, doenças e encontrar profissionais.
Sempre responda de forma clara e objetiva.`

const defaultVerifyToken = "agenteagro_token"

var defaultKnowledgeSources = []string{"EMBRAPA", "MAPA", "SciELO", "PlantVillage"}

// SettingsFields holds the typed local mapping of the remote config entries.
type SettingsFields struct {
	WhatsAppNumberID    string
	WhatsAppAccessToken string
	WhatsAppVerifyToken string
	OpenAIAPIKey        string
	SystemPrompt        string
	WebhookURL          string
	KnowledgeSources    []string
}

// SaveOutcome distinguishes the three terminal states of a save fan-out.
type SaveOutcome int

const (
	SaveAllSucceeded SaveOutcome = iota
	SavePartialFailure
	SaveAllFailed
)

// SaveFailure records one rejected field write.
type SaveFailure struct {
	Key string
	Err string
}

// SaveReport summarizes a settings save. Every field write is independent, so
// partial failure is a first-class result, not an error.
type SaveReport struct {
	Saved  []string
	Failed []SaveFailure
}

// Outcome classifies the report.
func (r SaveReport) Outcome() SaveOutcome {
	switch {
	case len(r.Failed) == 0:
		return SaveAllSucceeded
	case len(r.Saved) == 0:
		return SaveAllFailed
	default:
		return SavePartialFailure
	}
}

// Message returns the operator-facing summary, distinguishing all-saved from
// partially-saved per the save contract.
func (r SaveReport) Message() string {
	switch r.Outcome() {
	case SaveAllSucceeded:
		return "Configurações salvas com sucesso!"
	case SaveAllFailed:
		return "Nenhuma configuração pôde ser salva. Verifique a conexão com o backend."
	default:
		keys := make([]string, len(r.Failed))
		for i, f := range r.Failed {
			keys[i] = f.Key
		}
		return "Algumas configurações não puderam ser salvas: " + strings.Join(keys, ", ")
	}
}

// FieldLabel derives the display label for a config key.
func FieldLabel(key string) string {
	return strcase.ToCase(key, strcase.TitleCase, ' ')
}

// SettingsController loads the remote config list once, edits typed fields
// locally, and writes every field back in parallel on save.
type SettingsController struct {
	source    ConfigSource
	apiBase   string
	activity  ActivityFeed
	telemetry Telemetry

	mu     sync.Mutex
	state  FetchState
	fields SettingsFields
}

// SettingsOptions configures the settings controller. APIBase is the resolved
// backend base URL used to derive the webhook fallback.
type SettingsOptions struct {
	Source    ConfigSource
	APIBase   string
	Activity  ActivityFeed
	Telemetry Telemetry
}

// NewSettingsController builds the controller with product defaults in place
// until the first load.
func NewSettingsController(opts SettingsOptions) *SettingsController {
	return &SettingsController{
		source:    opts.Source,
		apiBase:   opts.APIBase,
		activity:  normalizeActivity(opts.Activity),
		telemetry: normalizeTelemetry(opts.Telemetry),
		fields: SettingsFields{
			SystemPrompt:        defaultSystemPrompt,
			WhatsAppVerifyToken: defaultVerifyToken,
			WebhookURL:          DeriveWebhookURL(opts.APIBase),
			KnowledgeSources:    append([]string{}, defaultKnowledgeSources...),
		},
	}
}

// DeriveWebhookURL builds the webhook endpoint from the API base URL. The
// stored webhook_url entry, when present, overrides this derivation.
func DeriveWebhookURL(apiBase string) string {
	base := strings.TrimSuffix(apiBase, "/")
	base = strings.TrimSuffix(base, "/api/v1")
	if base == "" {
		base = "http://localhost:8000"
	}
	return base + "/api/v1/whatsapp/webhook"
}

// Load fetches the full config list and maps known keys into typed fields.
// Unknown keys are ignored; a malformed knowledge_sources value keeps the
// current list rather than failing the page.
func (c *SettingsController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state.begin()
	c.mu.Unlock()

	entries, err := c.source.ListConfig(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.fail(err)
		c.telemetry.Record(ctx, "admin.settings.load_error", map[string]any{"error": err.Error()})
		return err
	}
	for _, entry := range entries {
		switch entry.Key {
		case KeyWhatsAppNumberID:
			c.fields.WhatsAppNumberID = entry.Value
		case KeyWhatsAppAccessToken:
			c.fields.WhatsAppAccessToken = entry.Value
		case KeyWhatsAppVerifyToken:
			c.fields.WhatsAppVerifyToken = entry.Value
		case KeyOpenAIAPIKey:
			c.fields.OpenAIAPIKey = entry.Value
		case KeySystemPrompt:
			c.fields.SystemPrompt = entry.Value
		case KeyWebhookURL:
			c.fields.WebhookURL = entry.Value
		case KeyKnowledgeSources:
			var sources []string
			if jsonErr := json.Unmarshal([]byte(entry.Value), &sources); jsonErr == nil {
				c.fields.KnowledgeSources = sources
			}
		}
	}
	c.state.succeed()
	return nil
}

// Update replaces the editable fields with the submitted form values.
func (c *SettingsController) Update(fields SettingsFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = fields
}

// AddKnowledgeSource appends a source, suppressing blanks and duplicates.
func (c *SettingsController) AddKnowledgeSource(source string) {
	source = strings.TrimSpace(source)
	if source == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.fields.KnowledgeSources {
		if existing == source {
			return
		}
	}
	c.fields.KnowledgeSources = append(c.fields.KnowledgeSources, source)
}

// RemoveKnowledgeSource drops a source from the list.
func (c *SettingsController) RemoveKnowledgeSource(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.fields.KnowledgeSources[:0]
	for _, existing := range c.fields.KnowledgeSources {
		if existing != source {
			kept = append(kept, existing)
		}
	}
	c.fields.KnowledgeSources = kept
}

// SaveAll writes the six editable entries in parallel, one request per key.
// The webhook URL is derived, not written. Success requires every write to
// succeed individually; anything less is reported field by field.
func (c *SettingsController) SaveAll(ctx context.Context) SaveReport {
	c.mu.Lock()
	fields := c.fields
	c.mu.Unlock()

	sources, err := json.Marshal(fields.KnowledgeSources)
	if err != nil {
		sources = []byte("[]")
	}
	writes := map[string]string{
		KeySystemPrompt:        fields.SystemPrompt,
		KeyWhatsAppNumberID:    fields.WhatsAppNumberID,
		KeyWhatsAppAccessToken: fields.WhatsAppAccessToken,
		KeyWhatsAppVerifyToken: fields.WhatsAppVerifyToken,
		KeyOpenAIAPIKey:        fields.OpenAIAPIKey,
		KeyKnowledgeSources:    string(sources),
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		report SaveReport
	)
	for key, value := range writes {
		wg.Add(1)
		go func(key, value string) {
			defer wg.Done()
			err := c.source.PutConfig(ctx, key, value)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, SaveFailure{Key: key, Err: err.Error()})
				return
			}
			report.Saved = append(report.Saved, key)
		}(key, value)
	}
	wg.Wait()

	sort.Strings(report.Saved)
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].Key < report.Failed[j].Key })

	c.telemetry.Record(ctx, "admin.settings.saved", map[string]any{
		"saved":  len(report.Saved),
		"failed": len(report.Failed),
	})
	if report.Outcome() != SaveAllFailed {
		c.activity.Record(ctx, "salvou configurações", report.Message())
	}
	return report
}

// SettingsView is the render snapshot for the settings page.
type SettingsView struct {
	State  FetchState
	Fields SettingsFields
	Labels map[string]string
}

// View returns a copy of the current settings state with display labels.
func (c *SettingsController) View() SettingsView {
	c.mu.Lock()
	defer c.mu.Unlock()
	fields := c.fields
	fields.KnowledgeSources = append([]string{}, c.fields.KnowledgeSources...)
	labels := map[string]string{}
	for _, key := range []string{
		KeyWhatsAppNumberID, KeyWhatsAppAccessToken, KeyWhatsAppVerifyToken,
		KeyOpenAIAPIKey, KeySystemPrompt, KeyWebhookURL, KeyKnowledgeSources,
	} {
		labels[key] = FieldLabel(key)
	}
	return SettingsView{State: c.state, Fields: fields, Labels: labels}
}
