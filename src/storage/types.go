package storage

import "time"

// Conversation is one user-assistant dialogue thread, scoped to a tenant.
type Conversation struct {
	ID           string     `json:"id" db:"id"`
	TenantID     string     `json:"tenant_id" db:"tenant_id"`
	UserID       string     `json:"user_id" db:"user_id"`
	ClientID     *string    `json:"client_id,omitempty" db:"client_id"`
	ProjectID    *string    `json:"project_id,omitempty" db:"project_id"`
	Active       bool       `json:"active" db:"active"`
	CurrentAgent string     `json:"current_agent" db:"current_agent"`
	Metadata     JSONMap    `json:"metadata" db:"metadata"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty" db:"closed_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Message is one immutable entry in a conversation's log.
type Message struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	Author         string    `json:"author" db:"author"`
	AgentID        *string   `json:"agent_id,omitempty" db:"agent_id"`
	Kind           string    `json:"kind" db:"kind"`
	Text           string    `json:"text" db:"text"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Task is a trackable unit of work, optionally linked to a conversation.
type Task struct {
	ID             string    `json:"id" db:"id"`
	ConversationID *string   `json:"conversation_id,omitempty" db:"conversation_id"`
	Action         string    `json:"action" db:"action"`
	Target         string    `json:"target" db:"target"`
	Intent         string    `json:"intent" db:"intent"`
	Priority       string    `json:"priority" db:"priority"`
	Status         string    `json:"status" db:"status"`
	Notes          string    `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Project holds the client project context the execution dispatcher resolves
// task requests against.
type Project struct {
	ID        string    `json:"id" db:"id"`
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	ClientID  *string   `json:"client_id,omitempty" db:"client_id"`
	Name      string    `json:"name" db:"name"`
	Domain    string    `json:"domain" db:"domain"`
	CMS       string    `json:"cms" db:"cms"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Message author values.
const (
	AuthorUser  = "user"
	AuthorAgent = "agent"
)

// Message kind values.
const (
	KindText     = "text"
	KindStatus   = "status"
	KindForm     = "form"
	KindThinking = "thinking"
)

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task status values.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// TaskPriorities lists the accepted priority values in display order.
func TaskPriorities() []string {
	return []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// TaskStatuses lists the accepted status values in lifecycle order.
func TaskStatuses() []string {
	return []string{StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled}
}
