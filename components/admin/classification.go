package admin

// ConversationStatus is the triage state derived from a conversation record.
// The backend never stores this; presence of a problem category alone decides it.
type ConversationStatus int

const (
	StatusPending ConversationStatus = iota
	StatusIdentified
)

// Label returns the Portuguese badge text shown in the conversation list.
func (s ConversationStatus) Label() string {
	if s == StatusIdentified {
		return "Identificado"
	}
	return "Pendente"
}

// CategoryPest is the problem category that feeds the pest-alert stat card.
const CategoryPest = "Praga"

// ClassifyConversation derives the triage status from the record.
func ClassifyConversation(c Conversation) ConversationStatus {
	if c.ProblemCategory != "" {
		return StatusIdentified
	}
	return StatusPending
}

// IsPestAlert reports whether the conversation counts toward pest alerts.
func IsPestAlert(c Conversation) bool {
	return c.ProblemCategory == CategoryPest
}
