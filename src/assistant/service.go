package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/agencykit/assistant/src/agent"
	"github.com/agencykit/assistant/src/llmclient"
	"github.com/agencykit/assistant/src/storage"
)

// Service is the orchestration layer over the conversation store, message
// log, task ledger and completion gateway. Each entity operation commits
// independently; there are no cross-entity transactions, so a crash between
// a message append and a conversation update can leave current_agent stale
// relative to the latest message. That weak consistency is deliberate.
type Service struct {
	db       *storage.DB
	gateway  *Gateway
	notifier *Notifier
	logger   *slog.Logger
}

// NewService creates the orchestration service.
func NewService(db *storage.DB, gateway *Gateway, notifier *Notifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = NewNotifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:       db,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger.With("component", "assistant"),
	}
}

// Notifier returns the conversation event publish point.
func (s *Service) Notifier() *Notifier {
	return s.notifier
}

// ─── Conversations ───────────────────────────────────────────────

// CreateConversationInput holds the fields for starting a conversation.
type CreateConversationInput struct {
	TenantID     string
	UserID       string
	ClientID     *string
	ProjectID    *string
	CurrentAgent string
	Metadata     storage.JSONMap
}

// CreateConversation starts a new active conversation.
func (s *Service) CreateConversation(ctx context.Context, in CreateConversationInput) (*storage.Conversation, error) {
	if in.TenantID == "" {
		return nil, validationf("tenant_id is required")
	}
	if in.UserID == "" {
		return nil, validationf("user_id is required")
	}
	if in.CurrentAgent == "" {
		in.CurrentAgent = agent.DefaultAgentID
	}

	conv := &storage.Conversation{
		TenantID:     in.TenantID,
		UserID:       in.UserID,
		ClientID:     in.ClientID,
		ProjectID:    in.ProjectID,
		CurrentAgent: in.CurrentAgent,
		Metadata:     in.Metadata,
	}
	if err := storage.CreateConversation(ctx, s.db.DB(), conv); err != nil {
		return nil, storeErr("create conversation", err)
	}
	s.notifyConversation(conv)
	return conv, nil
}

// GetConversation looks up a conversation, optionally narrowed by tenant/user.
func (s *Service) GetConversation(ctx context.Context, id string, filter storage.ConversationFilter) (*storage.Conversation, error) {
	conv, err := storage.GetConversationByID(ctx, s.db.DB(), id, filter)
	if err != nil {
		return nil, storeErr("get conversation", err)
	}
	if conv == nil {
		return nil, &NotFoundError{Entity: "conversation", ID: id}
	}
	return conv, nil
}

// ListConversations lists a tenant/user pair's conversations, newest first.
func (s *Service) ListConversations(ctx context.Context, tenantID, userID string, activeOnly bool) ([]storage.Conversation, error) {
	if tenantID == "" || userID == "" {
		return nil, validationf("tenant_id and user_id are required to list conversations")
	}
	convs, err := storage.ListConversations(ctx, s.db.DB(), tenantID, userID, activeOnly)
	if err != nil {
		return nil, storeErr("list conversations", err)
	}
	return convs, nil
}

// UpdateConversationInput holds the fields of a partial conversation update.
type UpdateConversationInput struct {
	CurrentAgent *string
	Active       *bool
	Metadata     storage.JSONMap
}

// UpdateConversation applies a partial update. Metadata is merged field by
// field over the existing map, never replaced wholesale.
func (s *Service) UpdateConversation(ctx context.Context, id string, in UpdateConversationInput, filter storage.ConversationFilter) (*storage.Conversation, error) {
	upd := storage.ConversationUpdate{
		CurrentAgent: in.CurrentAgent,
		Active:       in.Active,
	}

	if in.Metadata != nil {
		existing, err := s.GetConversation(ctx, id, filter)
		if err != nil {
			return nil, err
		}
		upd.Metadata = existing.Metadata.Merge(in.Metadata)
	}

	ok, err := storage.UpdateConversation(ctx, s.db.DB(), id, upd, filter)
	if err != nil {
		return nil, storeErr("update conversation", err)
	}
	if !ok {
		return nil, &NotFoundError{Entity: "conversation", ID: id}
	}

	conv, err := s.GetConversation(ctx, id, filter)
	if err != nil {
		return nil, err
	}
	s.notifyConversation(conv)
	return conv, nil
}

// CloseConversation marks a conversation inactive. Idempotent: closing an
// already-closed conversation succeeds and re-stamps closed_at.
func (s *Service) CloseConversation(ctx context.Context, id string, filter storage.ConversationFilter) (*storage.Conversation, error) {
	ok, err := storage.CloseConversation(ctx, s.db.DB(), id, filter)
	if err != nil {
		return nil, storeErr("close conversation", err)
	}
	if !ok {
		return nil, &NotFoundError{Entity: "conversation", ID: id}
	}

	conv, err := s.GetConversation(ctx, id, filter)
	if err != nil {
		return nil, err
	}
	s.notifyConversation(conv)
	return conv, nil
}

func (s *Service) notifyConversation(conv *storage.Conversation) {
	s.notifier.notify(ConversationEvent{
		ConversationID: conv.ID,
		TenantID:       conv.TenantID,
		UserID:         conv.UserID,
		CurrentAgent:   conv.CurrentAgent,
		Active:         conv.Active,
		UpdatedAt:      conv.UpdatedAt,
	})
}

// ─── Messages ────────────────────────────────────────────────────

// AppendMessageInput holds the fields for one message append.
type AppendMessageInput struct {
	ConversationID string
	Author         string
	Text           string
	AgentID        *string
	Kind           string
}

// AppendMessage inserts one immutable message. The conversation's updated_at
// is deliberately not touched here; callers that want freshness update the
// conversation explicitly.
func (s *Service) AppendMessage(ctx context.Context, in AppendMessageInput) (*storage.Message, error) {
	if in.Author != storage.AuthorUser && in.Author != storage.AuthorAgent {
		return nil, validationf("author must be %q or %q, got %q", storage.AuthorUser, storage.AuthorAgent, in.Author)
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, validationf("text must not be empty")
	}
	if in.Kind == "" {
		in.Kind = storage.KindText
	}

	conv, err := storage.GetConversationByID(ctx, s.db.DB(), in.ConversationID, storage.ConversationFilter{})
	if err != nil {
		return nil, storeErr("get conversation", err)
	}
	if conv == nil {
		return nil, &NotFoundError{Entity: "conversation", ID: in.ConversationID}
	}

	msg := &storage.Message{
		ConversationID: in.ConversationID,
		Author:         in.Author,
		AgentID:        in.AgentID,
		Kind:           in.Kind,
		Text:           in.Text,
	}
	if err := storage.CreateMessage(ctx, s.db.DB(), msg); err != nil {
		return nil, storeErr("create message", err)
	}
	return msg, nil
}

// ListMessages returns a conversation's messages ascending by creation time.
// Returns an empty slice for a conversation with no messages.
func (s *Service) ListMessages(ctx context.Context, conversationID string) ([]storage.Message, error) {
	msgs, err := storage.ListMessages(ctx, s.db.DB(), conversationID)
	if err != nil {
		return nil, storeErr("list messages", err)
	}
	return msgs, nil
}

// ─── Tasks ───────────────────────────────────────────────────────

// CreateTaskInput holds the fields for one task creation.
type CreateTaskInput struct {
	ConversationID *string
	Action         string
	Target         string
	Intent         string
	Priority       string
	Status         string
	Notes          string
}

// CreateTask validates and records a task. Priority and status must be one of
// their enumerated values; anything else is rejected, never coerced.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*storage.Task, error) {
	if in.Action == "" || in.Target == "" || in.Intent == "" {
		return nil, validationf("action, target and intent are required")
	}
	if in.Status == "" {
		in.Status = storage.StatusOpen
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}
	if err := validateStatus(in.Status); err != nil {
		return nil, err
	}

	if in.ConversationID != nil && *in.ConversationID != "" {
		conv, err := storage.GetConversationByID(ctx, s.db.DB(), *in.ConversationID, storage.ConversationFilter{})
		if err != nil {
			return nil, storeErr("get conversation", err)
		}
		if conv == nil {
			return nil, &NotFoundError{Entity: "conversation", ID: *in.ConversationID}
		}
	}

	task := &storage.Task{
		ConversationID: in.ConversationID,
		Action:         in.Action,
		Target:         in.Target,
		Intent:         in.Intent,
		Priority:       in.Priority,
		Status:         in.Status,
		Notes:          in.Notes,
	}
	if err := storage.CreateTask(ctx, s.db.DB(), task); err != nil {
		return nil, storeErr("create task", err)
	}
	return task, nil
}

// GetTask looks up a task by id.
func (s *Service) GetTask(ctx context.Context, id string) (*storage.Task, error) {
	task, err := storage.GetTaskByID(ctx, s.db.DB(), id)
	if err != nil {
		return nil, storeErr("get task", err)
	}
	if task == nil {
		return nil, &NotFoundError{Entity: "task", ID: id}
	}
	return task, nil
}

// ListTasks lists tasks, optionally filtered by conversation or status.
func (s *Service) ListTasks(ctx context.Context, filter storage.TaskFilter) ([]storage.Task, error) {
	if filter.Status != "" {
		if err := validateStatus(filter.Status); err != nil {
			return nil, err
		}
	}
	tasks, err := storage.ListTasks(ctx, s.db.DB(), filter)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	return tasks, nil
}

// UpdateTaskInput holds the fields of a partial task update. Nil fields are
// preserved.
type UpdateTaskInput struct {
	Action   *string
	Target   *string
	Intent   *string
	Priority *string
	Status   *string
	Notes    *string
}

// UpdateTask applies a partial update. Status transitions are not adjacency
// checked; enum membership is the only constraint.
func (s *Service) UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (*storage.Task, error) {
	if in.Priority != nil {
		if err := validatePriority(*in.Priority); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	ok, err := storage.UpdateTask(ctx, s.db.DB(), id, storage.TaskUpdate{
		Action:   in.Action,
		Target:   in.Target,
		Intent:   in.Intent,
		Priority: in.Priority,
		Status:   in.Status,
		Notes:    in.Notes,
	})
	if err != nil {
		return nil, storeErr("update task", err)
	}
	if !ok {
		return nil, &NotFoundError{Entity: "task", ID: id}
	}
	return s.GetTask(ctx, id)
}

func validatePriority(priority string) error {
	for _, p := range storage.TaskPriorities() {
		if priority == p {
			return nil
		}
	}
	return validationf("priority must be one of %s, got %q", strings.Join(storage.TaskPriorities(), ", "), priority)
}

func validateStatus(status string) error {
	for _, st := range storage.TaskStatuses() {
		if status == st {
			return nil
		}
	}
	return validationf("status must be one of %s, got %q", strings.Join(storage.TaskStatuses(), ", "), status)
}

// ─── Projects ────────────────────────────────────────────────────

// CreateProjectInput holds the fields for one project creation.
type CreateProjectInput struct {
	TenantID string
	ClientID *string
	Name     string
	Domain   string
	CMS      string
}

// CreateProject records a client project.
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*storage.Project, error) {
	if in.TenantID == "" {
		return nil, validationf("tenant_id is required")
	}
	if in.Name == "" {
		return nil, validationf("name is required")
	}
	project := &storage.Project{
		TenantID: in.TenantID,
		ClientID: in.ClientID,
		Name:     in.Name,
		Domain:   in.Domain,
		CMS:      in.CMS,
	}
	if err := storage.CreateProject(ctx, s.db.DB(), project); err != nil {
		return nil, storeErr("create project", err)
	}
	return project, nil
}

// GetProject looks up a project by id.
func (s *Service) GetProject(ctx context.Context, id string) (*storage.Project, error) {
	project, err := storage.GetProjectByID(ctx, s.db.DB(), id)
	if err != nil {
		return nil, storeErr("get project", err)
	}
	if project == nil {
		return nil, &NotFoundError{Entity: "project", ID: id}
	}
	return project, nil
}

// ─── Chat ────────────────────────────────────────────────────────

// ChatMessage is one entry of a caller-supplied history for stateless chat.
type ChatMessage struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Kind   string `json:"kind"`
}

// ChatResult is the outcome of a completion exchange.
type ChatResult struct {
	Reply   string          `json:"message"`
	AgentID string          `json:"agent_id"`
	Usage   llmclient.Usage `json:"usage"`
}

// Chat runs a stateless completion over a caller-supplied history. Nothing is
// persisted. An empty agent id resolves to the default supervisor.
func (s *Service) Chat(ctx context.Context, agentID string, messages []ChatMessage) (*ChatResult, error) {
	if len(messages) == 0 {
		return nil, validationf("messages must not be empty")
	}
	history := make([]storage.Message, 0, len(messages))
	for i, m := range messages {
		if m.Author != storage.AuthorUser && m.Author != storage.AuthorAgent {
			return nil, validationf("messages[%d].author must be %q or %q", i, storage.AuthorUser, storage.AuthorAgent)
		}
		if strings.TrimSpace(m.Text) == "" {
			return nil, validationf("messages[%d].text must not be empty", i)
		}
		kind := m.Kind
		if kind == "" {
			kind = storage.KindText
		}
		history = append(history, storage.Message{Author: m.Author, Text: m.Text, Kind: kind})
	}
	if agentID == "" {
		agentID = agent.DefaultAgentID
	}

	reply, usage, err := s.gateway.Complete(ctx, agentID, history)
	if err != nil {
		return nil, err
	}
	return &ChatResult{Reply: reply, AgentID: agentID, Usage: usage}, nil
}

// ConverseInput drives one persisted conversation turn.
type ConverseInput struct {
	ConversationID string
	Text           string
	Filter         storage.ConversationFilter
}

// ConverseResult carries both sides of a persisted exchange.
type ConverseResult struct {
	UserMessage  *storage.Message
	AgentMessage *storage.Message
	AgentID      string
	Usage        llmclient.Usage
}

// Converse runs the full chat flow against a stored conversation: append the
// user message, route to an agent, complete, append the reply, and update the
// conversation's current agent when routing moved it. Each step is a separate
// commit. On gateway failure a best-effort status message is appended so the
// conversation stays coherent; that append's own failure is swallowed.
func (s *Service) Converse(ctx context.Context, in ConverseInput) (*ConverseResult, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, validationf("text must not be empty")
	}

	conv, err := s.GetConversation(ctx, in.ConversationID, in.Filter)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.AppendMessage(ctx, AppendMessageInput{
		ConversationID: conv.ID,
		Author:         storage.AuthorUser,
		Text:           in.Text,
	})
	if err != nil {
		return nil, err
	}

	target := agent.Route(conv.CurrentAgent, in.Text)

	history, err := s.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	reply, usage, err := s.gateway.Complete(ctx, target, history)
	if err != nil {
		s.appendStatusBestEffort(ctx, conv.ID, target,
			"The assistant is temporarily unavailable. Your message was saved; please try again shortly.")
		return nil, err
	}

	agentMsg, err := s.AppendMessage(ctx, AppendMessageInput{
		ConversationID: conv.ID,
		Author:         storage.AuthorAgent,
		AgentID:        &target,
		Text:           reply,
	})
	if err != nil {
		return nil, err
	}

	if target != conv.CurrentAgent {
		if _, err := s.UpdateConversation(ctx, conv.ID, UpdateConversationInput{CurrentAgent: &target}, in.Filter); err != nil {
			// The reply is already stored; a stale current_agent is the
			// documented weak-consistency tradeoff.
			s.logger.Warn("failed to update current agent", "conversation_id", conv.ID, "agent", target, "error", err)
		}
	}

	return &ConverseResult{
		UserMessage:  userMsg,
		AgentMessage: agentMsg,
		AgentID:      target,
		Usage:        usage,
	}, nil
}

// appendStatusBestEffort writes a status-kind message and swallows any
// failure so a logging problem never masks the original error.
func (s *Service) appendStatusBestEffort(ctx context.Context, conversationID, agentID, text string) {
	_, err := s.AppendMessage(ctx, AppendMessageInput{
		ConversationID: conversationID,
		Author:         storage.AuthorAgent,
		AgentID:        &agentID,
		Kind:           storage.KindStatus,
		Text:           text,
	})
	if err != nil {
		s.logger.Warn("failed to append status message", "conversation_id", conversationID, "error", err)
	}
}

// DescribeAgents returns the static agent table for presentation.
func (s *Service) DescribeAgents() []agent.Definition {
	return agent.All()
}
