package admin

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultPageSize matches the fixed page length of the conversation table.
const DefaultPageSize = 10

// ConversationDetail is the nested transcript sub-state. It loads behind its
// own flag so the list stays interactive while messages stream in.
type ConversationDetail struct {
	State    FetchState
	Item     ConversationListItem
	Messages []MessageView
	Open     bool
}

// ConversationListController owns the paginated conversation table and the
// transcript detail overlay.
type ConversationListController struct {
	source    ConversationSource
	pageSize  int
	telemetry Telemetry

	mu         sync.Mutex
	state      FetchState
	page       int
	total      int
	items      []ConversationListItem
	fetchToken string
	detail     ConversationDetail
}

// ConversationListOptions configures the list controller.
type ConversationListOptions struct {
	Source    ConversationSource
	PageSize  int
	Telemetry Telemetry
}

// NewConversationListController builds a controller starting on page one.
func NewConversationListController(opts ConversationListOptions) *ConversationListController {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return &ConversationListController{
		source:    opts.Source,
		pageSize:  size,
		telemetry: normalizeTelemetry(opts.Telemetry),
		page:      1,
	}
}

// Load fetches the current page.
func (c *ConversationListController) Load(ctx context.Context) error {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()
	return c.fetchPage(ctx, page)
}

// GoToPage clamps the requested page into [1, totalPages] and fetches it.
// Before the first successful fetch the total is unknown, so only the lower
// bound applies; the post-fetch re-clamp corrects any overshoot.
func (c *ConversationListController) GoToPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.total > 0 {
		page = clampPage(page, c.totalPages())
	} else if page < 1 {
		page = 1
	}
	c.mu.Unlock()
	return c.fetchPage(ctx, page)
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func (c *ConversationListController) totalPages() int {
	pages := (c.total + c.pageSize - 1) / c.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// fetchPage issues the list request tagged with a fresh token. Requests are
// never cancelled, so a rapid page flip can leave an older response arriving
// after a newer one; the token gate drops any response that is no longer the
// latest instead of letting it overwrite current state.
func (c *ConversationListController) fetchPage(ctx context.Context, page int) error {
	token := uuid.NewString()

	c.mu.Lock()
	c.state.begin()
	c.page = page
	c.fetchToken = token
	c.mu.Unlock()

	result, err := c.source.ListConversations(ctx, ListPage{
		Skip:  (page - 1) * c.pageSize,
		Limit: c.pageSize,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetchToken != token {
		return nil
	}
	if err != nil {
		c.state.fail(err)
		c.telemetry.Record(ctx, "admin.conversations.load_error", map[string]any{
			"page":  page,
			"error": err.Error(),
		})
		return err
	}

	items := make([]ConversationListItem, len(result.Items))
	for i, conv := range result.Items {
		items[i] = MapConversationToListItem(conv)
	}
	c.items = items
	c.total = result.Total
	// The clamp runs against the total known before the fetch; a shrunken
	// collection can still leave the page past the end, so re-clamp.
	c.page = clampPage(page, c.totalPages())
	c.state.succeed()
	return nil
}

// Select opens the detail overlay for a listed conversation and fetches its
// transcript. The list view model is left untouched.
func (c *ConversationListController) Select(ctx context.Context, id int64) error {
	c.mu.Lock()
	selected := ConversationListItem{ID: id}
	for _, item := range c.items {
		if item.ID == id {
			selected = item
			break
		}
	}
	c.detail = ConversationDetail{Open: true, Item: selected}
	c.detail.State.begin()
	c.mu.Unlock()

	messages, err := c.source.ListMessages(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.detail.Open || c.detail.Item.ID != selected.ID {
		return nil
	}
	if err != nil {
		c.detail.State.fail(err)
		c.telemetry.Record(ctx, "admin.conversations.detail_error", map[string]any{
			"conversation_id": id,
			"error":           err.Error(),
		})
		return err
	}
	views := make([]MessageView, len(messages))
	for i, m := range messages {
		views[i] = MapMessageToView(m)
	}
	c.detail.Messages = views
	c.detail.State.succeed()
	return nil
}

// CloseDetail dismisses the transcript overlay.
func (c *ConversationListController) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detail = ConversationDetail{}
}

// ConversationListView is the render snapshot for the chat history page.
type ConversationListView struct {
	State      FetchState
	Items      []ConversationListItem
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	Detail     ConversationDetail
}

// View returns a copy of the current list state.
func (c *ConversationListController) View() ConversationListView {
	c.mu.Lock()
	defer c.mu.Unlock()
	detail := c.detail
	detail.Messages = append([]MessageView{}, c.detail.Messages...)
	return ConversationListView{
		State:      c.state,
		Items:      append([]ConversationListItem{}, c.items...),
		Page:       c.page,
		PageSize:   c.pageSize,
		Total:      c.total,
		TotalPages: c.totalPages(),
		Detail:     detail,
	}
}
