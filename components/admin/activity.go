package admin

import (
	"context"
	"sync"
	"time"
)

// ActivityItem is one recent admin action shown on the dashboard page.
type ActivityItem struct {
	Action  string
	Details string
	At      time.Time
}

// ActivityFeed records and lists recent admin actions.
type ActivityFeed interface {
	Record(ctx context.Context, action, details string)
	Recent(ctx context.Context, limit int) []ActivityItem
}

// MemoryActivityFeed keeps the newest entries in memory, newest first.
type MemoryActivityFeed struct {
	mu    sync.Mutex
	max   int
	clock func() time.Time
	items []ActivityItem
}

// NewMemoryActivityFeed builds a feed retaining up to max entries.
func NewMemoryActivityFeed(max int) *MemoryActivityFeed {
	if max <= 0 {
		max = 50
	}
	return &MemoryActivityFeed{max: max, clock: time.Now}
}

// Record prepends an entry, evicting the oldest past the retention cap.
func (f *MemoryActivityFeed) Record(_ context.Context, action, details string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]ActivityItem{{Action: action, Details: details, At: f.clock()}}, f.items...)
	if len(f.items) > f.max {
		f.items = f.items[:f.max]
	}
}

// Recent returns up to limit entries, newest first.
func (f *MemoryActivityFeed) Recent(_ context.Context, limit int) []ActivityItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.items) {
		limit = len(f.items)
	}
	return append([]ActivityItem{}, f.items[:limit]...)
}

type noopActivityFeed struct{}

func (noopActivityFeed) Record(context.Context, string, string) {}

func (noopActivityFeed) Recent(context.Context, int) []ActivityItem { return nil }

func normalizeActivity(f ActivityFeed) ActivityFeed {
	if f == nil {
		return noopActivityFeed{}
	}
	return f
}
