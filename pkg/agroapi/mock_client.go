package agroapi

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	admin "github.com/agenteagro/admin/components/admin"
)

// MockClient serves fixture data from memory. It is used by the demo binary
// and by tests that need a backend without the network.
type MockClient struct {
	mu            sync.Mutex
	conversations []admin.Conversation
	messages      map[int64][]admin.Message
	professionals []admin.Professional
	config        map[string]string
	nextID        int64
}

// NewMockClient seeds a mock backend with a representative fixture set.
func NewMockClient() *MockClient {
	now := time.Now()
	day := func(offset int, hour int) string {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location()).
			AddDate(0, 0, offset).Format(time.RFC3339)
	}
	client := &MockClient{
		conversations: []admin.Conversation{
			{ID: 1, WhatsAppID: "5511988880001", ProblemCategory: "Praga", LocationState: "SP", CreatedAt: day(0, 8), UpdatedAt: day(0, 9)},
			{ID: 2, WhatsAppID: "5562988880002", ProblemCategory: "Doença", LocationState: "GO", CreatedAt: day(-1, 14), UpdatedAt: day(-1, 15)},
			{ID: 3, WhatsAppID: "5531988880003", ProblemCategory: "", LocationState: "MG", CreatedAt: day(0, 10), UpdatedAt: day(0, 10)},
			{ID: 4, WhatsAppID: "5511988880001", ProblemCategory: "Praga", LocationState: "SP", CreatedAt: day(-3, 16), UpdatedAt: day(-3, 17)},
			{ID: 5, WhatsAppID: "5565988880005", ProblemCategory: "Solo", LocationState: "MT", CreatedAt: day(-6, 11), UpdatedAt: day(-6, 11)},
		},
		messages: map[int64][]admin.Message{
			1: {
				{ID: 1, Role: "user", Content: "Minha lavoura de soja está com lagartas.", CreatedAt: day(0, 8)},
				{ID: 2, Role: "assistant", Content: "Pode enviar uma foto das folhas atacadas?", CreatedAt: day(0, 8)},
				{ID: 3, Role: "user", Content: "Segue a foto.", MediaURL: "https://example.com/leaf.jpg", CreatedAt: day(0, 9)},
			},
			2: {
				{ID: 4, Role: "user", Content: "As folhas do tomateiro estão amarelando.", CreatedAt: day(-1, 14)},
				{ID: 5, Role: "assistant", Content: "Pode ser deficiência de nitrogênio ou requeima.", CreatedAt: day(-1, 15)},
			},
		},
		professionals: []admin.Professional{
			{ID: 1, Name: "Carlos Mendes", Type: "Agrônomo", State: "SP", City: "Campinas", Phone: "5519988881111", Specialties: "Soja, Milho"},
			{ID: 2, Name: "Ana Souza", Type: "Veterinário", State: "GO", City: "Goiânia", Phone: "5562988882222", Specialties: "Bovinos"},
			{ID: 3, Name: "João Pereira", Type: "Técnico Agrícola", State: "MT", City: "Sorriso", Specialties: "Algodão"},
		},
		config: map[string]string{
			admin.KeyWhatsAppNumberID: "1234567890",
			admin.KeySystemPrompt:     "Você é o AgenteAgro, assistente agrícola via WhatsApp.",
			admin.KeyKnowledgeSources: `["EMBRAPA","MAPA"]`,
		},
		nextID: 4,
	}
	return client
}

// ListConversations pages through the fixture conversations, newest first.
func (m *MockClient) ListConversations(ctx context.Context, page admin.ListPage) (admin.ConversationPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := make([]admin.Conversation, len(m.conversations))
	copy(sorted, m.conversations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})
	total := len(sorted)
	start := page.Skip
	if start > total {
		start = total
	}
	end := total
	if page.Limit > 0 && start+page.Limit < end {
		end = start + page.Limit
	}
	items := make([]admin.Conversation, end-start)
	copy(items, sorted[start:end])
	return admin.ConversationPage{Items: items, Total: total}, nil
}

// ListMessages returns the fixture transcript for a conversation.
func (m *MockClient) ListMessages(ctx context.Context, conversationID int64) ([]admin.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transcript := m.messages[conversationID]
	out := make([]admin.Message, len(transcript))
	copy(out, transcript)
	return out, nil
}

// ListProfessionals filters the fixture directory by state and type.
func (m *MockClient) ListProfessionals(ctx context.Context, filter admin.ProfessionalFilter) ([]admin.Professional, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []admin.Professional
	for _, p := range m.professionals {
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

// CreateProfessional appends a directory entry with a generated id.
func (m *MockClient) CreateProfessional(ctx context.Context, input admin.ProfessionalInput) (admin.Professional, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := admin.Professional{
		ID:          m.nextID,
		Name:        input.Name,
		Type:        input.Type,
		State:       input.State,
		City:        input.City,
		Phone:       input.Phone,
		Email:       input.Email,
		Specialties: input.Specialties,
	}
	m.nextID++
	m.professionals = append(m.professionals, created)
	return created, nil
}

// DeleteProfessional removes a directory entry by id.
func (m *MockClient) DeleteProfessional(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.professionals {
		if p.ID == id {
			m.professionals = append(m.professionals[:i], m.professionals[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("agroapi: professional %d not found", id)
}

// FetchStateRanking counts fixture conversations per state, descending.
func (m *MockClient) FetchStateRanking(ctx context.Context) ([]admin.StateCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, c := range m.conversations {
		if c.LocationState != "" {
			counts[c.LocationState]++
		}
	}
	return sortedCounts(counts, func(state string, count int) admin.StateCount {
		return admin.StateCount{State: state, Count: count}
	}), nil
}

// FetchProblemRanking counts fixture problem categories, optionally per state.
func (m *MockClient) FetchProblemRanking(ctx context.Context, state string) ([]admin.ProblemCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, c := range m.conversations {
		if c.ProblemCategory == "" {
			continue
		}
		if state != "" && c.LocationState != state {
			continue
		}
		counts[c.ProblemCategory]++
	}
	return sortedCounts(counts, func(problem string, count int) admin.ProblemCount {
		return admin.ProblemCount{Problem: problem, Count: count}
	}), nil
}

// FetchProblemsByRegion groups fixture problem counts by state.
func (m *MockClient) FetchProblemsByRegion(ctx context.Context) ([]admin.RegionProblems, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	perState := map[string]map[string]int{}
	for _, c := range m.conversations {
		if c.LocationState == "" || c.ProblemCategory == "" {
			continue
		}
		if perState[c.LocationState] == nil {
			perState[c.LocationState] = map[string]int{}
		}
		perState[c.LocationState][c.ProblemCategory]++
	}
	states := make([]string, 0, len(perState))
	for state := range perState {
		states = append(states, state)
	}
	sort.Strings(states)
	regions := make([]admin.RegionProblems, 0, len(states))
	for _, state := range states {
		regions = append(regions, admin.RegionProblems{
			State: state,
			Problems: sortedCounts(perState[state], func(problem string, count int) admin.ProblemCount {
				return admin.ProblemCount{Problem: problem, Count: count}
			}),
		})
	}
	return regions, nil
}

// ListConfig returns the fixture settings sorted by key.
func (m *MockClient) ListConfig(ctx context.Context) ([]admin.ConfigEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.config))
	for key := range m.config {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	entries := make([]admin.ConfigEntry, len(keys))
	for i, key := range keys {
		entries[i] = admin.ConfigEntry{Key: key, Value: m.config[key]}
	}
	return entries, nil
}

// PutConfig upserts a fixture setting.
func (m *MockClient) PutConfig(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config[key] = value
	return nil
}

func sortedCounts[T any](counts map[string]int, build func(string, int) T) []T {
	type pair struct {
		key   string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for key, count := range counts {
		pairs = append(pairs, pair{key, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	out := make([]T, len(pairs))
	for i, p := range pairs {
		out[i] = build(p.key, p.count)
	}
	return out
}
