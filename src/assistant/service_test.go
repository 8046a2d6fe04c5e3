package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencykit/assistant/src/storage"
)

func newTestService(t *testing.T, client CompletionClient) *Service {
	t.Helper()
	db, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	if client == nil {
		client = &stubClient{reply: "ok"}
	}
	gw := NewGateway(client, GatewayOptions{}, nil)
	return NewService(db, gw, NewNotifier(), nil)
}

func TestCreateConversationValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateConversation(ctx, CreateConversationInput{UserID: "u1"})
	assert.Equal(t, KindValidation, Kind(err))

	_, err = svc.CreateConversation(ctx, CreateConversationInput{TenantID: "t1"})
	assert.Equal(t, KindValidation, Kind(err))

	conv, err := svc.CreateConversation(ctx, CreateConversationInput{TenantID: "t1", UserID: "u1"})
	require.NoError(t, err)
	assert.True(t, conv.Active)
	assert.Equal(t, "chief", conv.CurrentAgent)
	assert.Nil(t, conv.ClosedAt)
}

func TestGetConversationNotFound(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.GetConversation(context.Background(), "missing", storage.ConversationFilter{})
	assert.Equal(t, KindNotFound, Kind(err))
}

func TestCloseConversationIdempotentThroughService(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, CreateConversationInput{TenantID: "t1", UserID: "u1"})
	require.NoError(t, err)

	first, err := svc.CloseConversation(ctx, conv.ID, storage.ConversationFilter{})
	require.NoError(t, err)
	assert.False(t, first.Active)

	second, err := svc.CloseConversation(ctx, conv.ID, storage.ConversationFilter{})
	require.NoError(t, err)
	assert.False(t, second.Active)
	assert.False(t, second.ClosedAt.Before(*first.ClosedAt))
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestAppendMessageValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, CreateConversationInput{TenantID: "t1", UserID: "u1"})
	require.NoError(t, err)

	// Invalid author leaves the log untouched.
	_, err = svc.AppendMessage(ctx, AppendMessageInput{ConversationID: conv.ID, Author: "bot", Text: "hi"})
	assert.Equal(t, KindValidation, Kind(err))

	msgs, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = svc.AppendMessage(ctx, AppendMessageInput{ConversationID: conv.ID, Author: storage.AuthorUser, Text: "   "})
	assert.Equal(t, KindValidation, Kind(err))

	_, err = svc.AppendMessage(ctx, AppendMessageInput{ConversationID: "missing", Author: storage.AuthorUser, Text: "hi"})
	assert.Equal(t, KindNotFound, Kind(err))
}

func TestCreateTaskEnumValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateTaskInput{Action: "Create", Target: "Page", Intent: "SEO", Priority: "bogus"})
	require.Equal(t, KindValidation, Kind(err))
	assert.Contains(t, err.Error(), "low, medium, high, urgent")

	// No partial row exists after the failure.
	tasks, err := svc.ListTasks(ctx, storage.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = svc.CreateTask(ctx, CreateTaskInput{Action: "Create", Target: "Page", Intent: "SEO", Priority: "high", Status: "bogus"})
	require.Equal(t, KindValidation, Kind(err))
	assert.Contains(t, err.Error(), "open, in_progress, completed, cancelled")

	task, err := svc.CreateTask(ctx, CreateTaskInput{Action: "Create", Target: "Page", Intent: "SEO improvement", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, storage.StatusOpen, task.Status)
	assert.Equal(t, storage.PriorityHigh, task.Priority)
}

func TestCreateTaskDanglingConversation(t *testing.T) {
	svc := newTestService(t, nil)

	missing := "missing"
	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		ConversationID: &missing,
		Action:         "Create",
		Target:         "Page",
		Intent:         "SEO",
		Priority:       "low",
	})
	assert.Equal(t, KindNotFound, Kind(err))
}

func TestUpdateTaskPreservesUnspecifiedFields(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskInput{Action: "Create", Target: "Page", Intent: "SEO", Priority: "high"})
	require.NoError(t, err)

	status := storage.StatusCompleted
	updated, err := svc.UpdateTask(ctx, task.ID, UpdateTaskInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, storage.StatusCompleted, updated.Status)
	assert.Equal(t, task.Action, updated.Action)
	assert.Equal(t, task.Priority, updated.Priority)

	// Transition adjacency is not enforced: completed -> open is accepted.
	open := storage.StatusOpen
	reopened, err := svc.UpdateTask(ctx, task.ID, UpdateTaskInput{Status: &open})
	require.NoError(t, err)
	assert.Equal(t, storage.StatusOpen, reopened.Status)

	_, err = svc.UpdateTask(ctx, "missing", UpdateTaskInput{Status: &status})
	assert.Equal(t, KindNotFound, Kind(err))
}

func TestConverseFullFlow(t *testing.T) {
	client := &stubClient{reply: "Here is the plan for your new page."}
	svc := newTestService(t, client)
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, CreateConversationInput{TenantID: "t1", UserID: "u1"})
	require.NoError(t, err)

	var events []ConversationEvent
	cancel := svc.Notifier().Subscribe(func(ev ConversationEvent) { events = append(events, ev) })
	defer cancel()

	result, err := svc.Converse(ctx, ConverseInput{ConversationID: conv.ID, Text: "Please create a new page"})
	require.NoError(t, err)
	assert.Equal(t, "webEngineer", result.AgentID, "keyword routing picks the web engineer")
	assert.Equal(t, "Here is the plan for your new page.", result.AgentMessage.Text)
	require.NotNil(t, result.AgentMessage.AgentID)
	assert.Equal(t, "webEngineer", *result.AgentMessage.AgentID)

	msgs, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, storage.AuthorUser, msgs[0].Author)
	assert.Equal(t, storage.AuthorAgent, msgs[1].Author)

	got, err := svc.GetConversation(ctx, conv.ID, storage.ConversationFilter{})
	require.NoError(t, err)
	assert.Equal(t, "webEngineer", got.CurrentAgent)

	require.NotEmpty(t, events, "conversation update is published")
	assert.Equal(t, "webEngineer", events[len(events)-1].CurrentAgent)
}

func TestConverseGatewayFailureLogsStatus(t *testing.T) {
	client := &stubClient{err: assertErr("provider down")}
	svc := newTestService(t, client)
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, CreateConversationInput{TenantID: "t1", UserID: "u1"})
	require.NoError(t, err)

	_, err = svc.Converse(ctx, ConverseInput{ConversationID: conv.ID, Text: "hello"})
	require.Equal(t, KindGateway, Kind(err))

	msgs, listErr := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, listErr)
	require.Len(t, msgs, 2, "user message plus fallback status entry")
	assert.Equal(t, storage.KindStatus, msgs[1].Kind)
}

func TestChatStateless(t *testing.T) {
	client := &stubClient{reply: "hi there"}
	svc := newTestService(t, client)

	result, err := svc.Chat(context.Background(), "", []ChatMessage{
		{Author: "user", Text: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", result.Reply)
	assert.Equal(t, "chief", result.AgentID)

	_, err = svc.Chat(context.Background(), "", nil)
	assert.Equal(t, KindValidation, Kind(err))

	_, err = svc.Chat(context.Background(), "", []ChatMessage{{Author: "bot", Text: "x"}})
	assert.Equal(t, KindValidation, Kind(err))
}

func TestUpdateConversationMetadataMerge(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, CreateConversationInput{
		TenantID: "t1",
		UserID:   "u1",
		Metadata: storage.JSONMap{"source": "dashboard", "theme": "dark"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateConversation(ctx, conv.ID, UpdateConversationInput{
		Metadata: storage.JSONMap{"theme": "light", "locale": "en"},
	}, storage.ConversationFilter{})
	require.NoError(t, err)

	assert.Equal(t, "dashboard", updated.Metadata["source"], "merge is field-level, not wholesale")
	assert.Equal(t, "light", updated.Metadata["theme"])
	assert.Equal(t, "en", updated.Metadata["locale"])
}

// assertErr is a trivial error type for stubbing failures.
type assertErr string

func (e assertErr) Error() string { return string(e) }
