package agroapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	admin "github.com/agenteagro/admin/components/admin"
)

// HTTPConfig configures the HTTP gateway client.
type HTTPConfig struct {
	// BaseURL is the explicit backend endpoint. Leave empty to resolve from
	// ServeHost per ResolveBaseURL.
	BaseURL string
	// ServeHost is the host name the dashboard itself is served from.
	ServeHost  string
	HTTPClient *http.Client
}

// HTTPClient talks to the AgenteAgro REST backend. Every call is a single
// round trip: no retries, no backoff; failures propagate to the caller
// unchanged beyond context wrapping.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient builds a client. The base URL is resolved once here and is
// immutable for the life of the client.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: ResolveBaseURL(cfg.BaseURL, cfg.ServeHost),
		client:  httpClient,
	}
}

// BaseURL reports the resolved backend endpoint.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// ListConversations fetches one page of conversations. The backend answers
// either a bare list or an {items, total} envelope; without the envelope the
// total falls back to the item count.
func (c *HTTPClient) ListConversations(ctx context.Context, page admin.ListPage) (admin.ConversationPage, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(page.Skip))
	query.Set("limit", strconv.Itoa(page.Limit))
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/conversations/?"+query.Encode(), nil, &raw); err != nil {
		return admin.ConversationPage{}, err
	}
	items, total, err := decodeConversationPage(raw)
	if err != nil {
		return admin.ConversationPage{}, err
	}
	result := admin.ConversationPage{Items: make([]admin.Conversation, len(items)), Total: total}
	for i, item := range items {
		result.Items[i] = item.toDomain()
	}
	return result, nil
}

func decodeConversationPage(raw json.RawMessage) ([]conversationWire, int, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []conversationWire
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, fmt.Errorf("agroapi: decode conversation list: %w", err)
		}
		return items, len(items), nil
	}
	var envelope struct {
		Items []conversationWire `json:"items"`
		Total *int               `json:"total"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, 0, fmt.Errorf("agroapi: decode conversation page: %w", err)
	}
	total := len(envelope.Items)
	if envelope.Total != nil {
		total = *envelope.Total
	}
	return envelope.Items, total, nil
}

// ListMessages fetches the transcript of one conversation.
func (c *HTTPClient) ListMessages(ctx context.Context, conversationID int64) ([]admin.Message, error) {
	var wire []messageWire
	path := fmt.Sprintf("/conversations/%d/messages", conversationID)
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	messages := make([]admin.Message, len(wire))
	for i, m := range wire {
		messages[i] = m.toDomain()
	}
	return messages, nil
}

// ListProfessionals fetches the directory, optionally filtered by state/type.
func (c *HTTPClient) ListProfessionals(ctx context.Context, filter admin.ProfessionalFilter) ([]admin.Professional, error) {
	path := "/professionals/"
	query := url.Values{}
	if filter.State != "" {
		query.Set("state", filter.State)
	}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var wire []professionalWire
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	professionals := make([]admin.Professional, len(wire))
	for i, p := range wire {
		professionals[i] = p.toDomain()
	}
	return professionals, nil
}

// CreateProfessional registers a directory entry.
func (c *HTTPClient) CreateProfessional(ctx context.Context, input admin.ProfessionalInput) (admin.Professional, error) {
	payload := professionalInputWire{
		Name:        input.Name,
		Type:        input.Type,
		State:       input.State,
		City:        input.City,
		Phone:       input.Phone,
		Email:       input.Email,
		Specialties: input.Specialties,
	}
	var wire professionalWire
	if err := c.do(ctx, http.MethodPost, "/professionals/", payload, &wire); err != nil {
		return admin.Professional{}, err
	}
	return wire.toDomain(), nil
}

// DeleteProfessional removes a directory entry.
func (c *HTTPClient) DeleteProfessional(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/professionals/%d", id), nil, nil)
}

// FetchStateRanking returns conversation volume per state in backend order.
func (c *HTTPClient) FetchStateRanking(ctx context.Context) ([]admin.StateCount, error) {
	var wire []stateCountWire
	if err := c.do(ctx, http.MethodGet, "/analytics/states", nil, &wire); err != nil {
		return nil, err
	}
	ranking := make([]admin.StateCount, len(wire))
	for i, row := range wire {
		ranking[i] = admin.StateCount{State: row.State, Count: row.Count}
	}
	return ranking, nil
}

// FetchProblemRanking returns the problem ranking, optionally per state.
func (c *HTTPClient) FetchProblemRanking(ctx context.Context, state string) ([]admin.ProblemCount, error) {
	path := "/analytics/problems"
	if state != "" {
		path += "?state=" + url.QueryEscape(state)
	}
	var wire []problemCountWire
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	ranking := make([]admin.ProblemCount, len(wire))
	for i, row := range wire {
		ranking[i] = admin.ProblemCount{Problem: row.Problem, Count: row.Count}
	}
	return ranking, nil
}

// FetchProblemsByRegion returns problem counts grouped by state.
func (c *HTTPClient) FetchProblemsByRegion(ctx context.Context) ([]admin.RegionProblems, error) {
	var wire []regionProblemsWire
	if err := c.do(ctx, http.MethodGet, "/analytics/problems-by-region", nil, &wire); err != nil {
		return nil, err
	}
	regions := make([]admin.RegionProblems, len(wire))
	for i, row := range wire {
		problems := make([]admin.ProblemCount, len(row.Problems))
		for j, p := range row.Problems {
			problems[j] = admin.ProblemCount{Problem: p.Problem, Count: p.Count}
		}
		regions[i] = admin.RegionProblems{State: row.State, Problems: problems}
	}
	return regions, nil
}

// ListConfig fetches every remote configuration entry.
func (c *HTTPClient) ListConfig(ctx context.Context) ([]admin.ConfigEntry, error) {
	var wire []configEntryWire
	if err := c.do(ctx, http.MethodGet, "/config/", nil, &wire); err != nil {
		return nil, err
	}
	entries := make([]admin.ConfigEntry, len(wire))
	for i, entry := range wire {
		entries[i] = admin.ConfigEntry{Key: entry.Key, Value: entry.Value}
	}
	return entries, nil
}

// PutConfig upserts one configuration entry.
func (c *HTTPClient) PutConfig(ctx context.Context, key, value string) error {
	path := "/config/" + url.PathEscape(key)
	return c.do(ctx, http.MethodPut, path, map[string]string{"value": value}, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("agroapi: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("agroapi: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("agroapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("agroapi: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("agroapi: decode response: %w", err)
	}
	return nil
}

type conversationWire struct {
	ID              int64  `json:"id"`
	WhatsAppID      string `json:"whatsapp_id"`
	ProblemCategory string `json:"problem_category"`
	LocationState   string `json:"location_state"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func (w conversationWire) toDomain() admin.Conversation {
	return admin.Conversation{
		ID:              w.ID,
		WhatsAppID:      w.WhatsAppID,
		ProblemCategory: w.ProblemCategory,
		LocationState:   w.LocationState,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

type messageWire struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	MediaURL  string `json:"media_url"`
	CreatedAt string `json:"created_at"`
}

func (w messageWire) toDomain() admin.Message {
	return admin.Message{
		ID:        w.ID,
		Role:      w.Role,
		Content:   w.Content,
		MediaURL:  w.MediaURL,
		CreatedAt: w.CreatedAt,
	}
}

type professionalWire struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	State       string `json:"state"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Specialties string `json:"specialties"`
}

func (w professionalWire) toDomain() admin.Professional {
	return admin.Professional{
		ID:          w.ID,
		Name:        w.Name,
		Type:        w.Type,
		State:       w.State,
		City:        w.City,
		Phone:       w.Phone,
		Email:       w.Email,
		Specialties: w.Specialties,
	}
}

type professionalInputWire struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	State       string `json:"state"`
	City        string `json:"city"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Specialties string `json:"specialties,omitempty"`
}

type stateCountWire struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

type problemCountWire struct {
	Problem string `json:"problem"`
	Count   int    `json:"count"`
}

type regionProblemsWire struct {
	State    string             `json:"state"`
	Problems []problemCountWire `json:"problems"`
}

type configEntryWire struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
