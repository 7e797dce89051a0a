package admin

import "context"

// Conversation mirrors a conversation record served by the AgenteAgro API.
// Timestamps arrive as ISO-8601 strings and may be absent.
type Conversation struct {
	ID              int64
	WhatsAppID      string
	ProblemCategory string
	LocationState   string
	CreatedAt       string
	UpdatedAt       string
}

// Message belongs to a conversation transcript.
type Message struct {
	ID        int64
	Role      string
	Content   string
	MediaURL  string
	CreatedAt string
}

// Professional is a directory entry for a rural service provider.
type Professional struct {
	ID          int64
	Name        string
	Type        string
	State       string
	City        string
	Phone       string
	Email       string
	Specialties string
}

// ProfessionalInput carries the fields accepted by the create endpoint.
type ProfessionalInput struct {
	Name        string
	Type        string
	State       string
	City        string
	Phone       string
	Email       string
	Specialties string
}

// ProfessionalFilter narrows directory listings. Empty fields mean "all".
type ProfessionalFilter struct {
	State string
	Type  string
}

// ConfigEntry is a named string-valued remote setting.
type ConfigEntry struct {
	Key   string
	Value string
}

// ListPage selects a window of a paginated collection.
type ListPage struct {
	Skip  int
	Limit int
}

// ConversationPage is one window of the conversation list plus the total count.
type ConversationPage struct {
	Items []Conversation
	Total int
}

// StateCount is one row of the state ranking, consumed in backend order.
type StateCount struct {
	State string
	Count int
}

// ProblemCount is one row of a problem ranking.
type ProblemCount struct {
	Problem string
	Count   int
}

// RegionProblems groups problem counts under a state.
type RegionProblems struct {
	State    string
	Problems []ProblemCount
}

// DashboardStats is the derived stat-card view model, recomputed on every fetch.
type DashboardStats struct {
	TodayCount  int
	UniqueUsers int
	PestAlerts  int
}

// WeeklyPoint is one calendar-day bucket of the seven-day series.
type WeeklyPoint struct {
	DayLabel          string
	Date              string
	ConversationCount int
	ProblemCount      int
}

// ConversationListItem is the display row projected from a Conversation.
type ConversationListItem struct {
	ID       int64
	User     string
	Info     string
	Date     string
	Status   string
	Category string
	Location string
}

// MessageView is the display shape of a transcript message.
type MessageView struct {
	ID       int64
	Role     string
	Content  string
	Time     string
	MediaURL string
}

// ConversationSource lists conversations and their transcripts.
type ConversationSource interface {
	ListConversations(ctx context.Context, page ListPage) (ConversationPage, error)
	ListMessages(ctx context.Context, conversationID int64) ([]Message, error)
}

// ProfessionalSource exposes the professional directory resource.
type ProfessionalSource interface {
	ListProfessionals(ctx context.Context, filter ProfessionalFilter) ([]Professional, error)
	CreateProfessional(ctx context.Context, input ProfessionalInput) (Professional, error)
	DeleteProfessional(ctx context.Context, id int64) error
}

// AnalyticsSource exposes the aggregate endpoints, consumed as-is.
type AnalyticsSource interface {
	FetchStateRanking(ctx context.Context) ([]StateCount, error)
	FetchProblemRanking(ctx context.Context, state string) ([]ProblemCount, error)
	FetchProblemsByRegion(ctx context.Context) ([]RegionProblems, error)
}

// ConfigSource reads and upserts remote configuration entries.
type ConfigSource interface {
	ListConfig(ctx context.Context) ([]ConfigEntry, error)
	PutConfig(ctx context.Context, key, value string) error
}
