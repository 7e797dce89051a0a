package admin

import (
	"time"
)

var weekdayLabels = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// DateKey renders a calendar-day key matching the API's timestamp prefixes.
// Day bucketing compares these strings, never parsed instants, so results are
// reproducible regardless of the host timezone.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func onDay(timestamp, dayKey string) bool {
	return dayKey != "" && len(timestamp) >= len(dayKey) && timestamp[:len(dayKey)] == dayKey
}

// ComputeDashboardStats derives the stat cards from a conversation list.
// "Today" matches updated_at first, falling back to created_at. Unique users
// is the distinct whatsapp_id cardinality over the whole input. Empty input
// yields all-zero stats.
func ComputeDashboardStats(conversations []Conversation, todayKey string) DashboardStats {
	var stats DashboardStats
	users := make(map[string]struct{}, len(conversations))
	for _, c := range conversations {
		if onDay(c.UpdatedAt, todayKey) || onDay(c.CreatedAt, todayKey) {
			stats.TodayCount++
		}
		if c.WhatsAppID != "" {
			users[c.WhatsAppID] = struct{}{}
		}
		if IsPestAlert(c) {
			stats.PestAlerts++
		}
	}
	stats.UniqueUsers = len(users)
	return stats
}

// ComputeWeeklySeries buckets conversations into the seven calendar days
// ending at today inclusive, oldest first. ConversationCount matches on the
// created_at date prefix; ProblemCount is the subset with a non-empty category.
func ComputeWeeklySeries(conversations []Conversation, today time.Time) []WeeklyPoint {
	points := make([]WeeklyPoint, 7)
	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, i-6)
		point := WeeklyPoint{
			DayLabel: weekdayLabels[int(day.Weekday())],
			Date:     DateKey(day),
		}
		for _, c := range conversations {
			if !onDay(c.CreatedAt, point.Date) {
				continue
			}
			point.ConversationCount++
			if ClassifyConversation(c) == StatusIdentified {
				point.ProblemCount++
			}
		}
		points[i] = point
	}
	return points
}

// MapConversationToListItem projects a conversation into its display row.
func MapConversationToListItem(c Conversation) ConversationListItem {
	info := "Sem categoria"
	if c.ProblemCategory != "" {
		info = "Categoria: " + c.ProblemCategory
	}
	timestamp := c.UpdatedAt
	if timestamp == "" {
		timestamp = c.CreatedAt
	}
	return ConversationListItem{
		ID:       c.ID,
		User:     c.WhatsAppID,
		Info:     info,
		Date:     displayTimestamp(timestamp),
		Status:   ClassifyConversation(c).Label(),
		Category: c.ProblemCategory,
		Location: c.LocationState,
	}
}

// MapMessageToView projects a transcript message for rendering.
func MapMessageToView(m Message) MessageView {
	return MessageView{
		ID:       m.ID,
		Role:     m.Role,
		Content:  m.Content,
		Time:     displayClock(m.CreatedAt),
		MediaURL: m.MediaURL,
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func displayTimestamp(value string) string {
	if t, ok := parseTimestamp(value); ok {
		return t.Format("02/01/2006 15:04")
	}
	return value
}

func displayClock(value string) string {
	if t, ok := parseTimestamp(value); ok {
		return t.Format("15:04")
	}
	return value
}
