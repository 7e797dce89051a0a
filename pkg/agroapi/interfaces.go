package agroapi

import (
	admin "github.com/agenteagro/admin/components/admin"
)

// Client is the full AgenteAgro backend surface the admin pages consume.
// Implementations cover conversations, the professional directory, the
// analytics aggregates, and remote configuration.
type Client interface {
	admin.ConversationSource
	admin.ProfessionalSource
	admin.AnalyticsSource
	admin.ConfigSource
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
