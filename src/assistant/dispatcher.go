package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agencykit/assistant/src/agent"
	"github.com/agencykit/assistant/src/storage"
)

// Outcome kinds. Simulated outcomes document what would have been done
// against the project's CMS; the integration itself is out of scope.
const (
	OutcomeSimulated = "simulated"
	OutcomePerformed = "performed"
)

// Supported task types.
const (
	TaskCreatePage    = "create_page"
	TaskCreatePost    = "create_post"
	TaskUpdateContent = "update_content"
	TaskCreateTask    = "create_task"
)

// Outcome is the tagged result of one execution: either a simulated
// description of a CMS action, or a performed effect with the created task.
type Outcome struct {
	Kind        string            `json:"kind"`
	Description string            `json:"description"`
	Details     map[string]string `json:"details,omitempty"`
	Task        *storage.Task     `json:"task,omitempty"`
}

// ExecutionResult is the dispatcher's response envelope.
type ExecutionResult struct {
	Success  bool    `json:"success"`
	TaskType string  `json:"task_type"`
	Outcome  Outcome `json:"result"`
	Message  string  `json:"message"`
}

// Dispatcher translates structured task requests into side effects, or into
// honest simulations where the real integration does not exist yet.
type Dispatcher struct {
	svc    *Service
	logger *slog.Logger
}

// NewDispatcher creates an execution dispatcher over the service.
func NewDispatcher(svc *Service, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{svc: svc, logger: logger.With("component", "dispatcher")}
}

// Execute validates the request against project context and dispatches on
// task type. When conversationID is set, a status message describing the
// action is appended afterwards; that logging is fire-and-forget relative to
// the primary effect.
func (d *Dispatcher) Execute(ctx context.Context, taskType string, params map[string]any, projectID, conversationID string) (*ExecutionResult, error) {
	if taskType == "" {
		return nil, validationf("task_type is required")
	}
	if projectID == "" {
		return nil, validationf("project_id is required")
	}

	project, err := d.svc.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var result *ExecutionResult
	switch taskType {
	case TaskCreatePage:
		result, err = d.simulatePage(project, params)
	case TaskCreatePost:
		result, err = d.simulatePost(project, params)
	case TaskUpdateContent:
		result, err = d.simulateContentUpdate(project, params)
	case TaskCreateTask:
		result, err = d.createTask(ctx, params, conversationID)
	default:
		return nil, validationf("unknown task type %q", taskType)
	}
	if err != nil {
		return nil, err
	}

	if conversationID != "" {
		taskRunner := agent.TaskRunner
		_, logErr := d.svc.AppendMessage(ctx, AppendMessageInput{
			ConversationID: conversationID,
			Author:         storage.AuthorAgent,
			AgentID:        &taskRunner,
			Kind:           storage.KindStatus,
			Text:           result.Message,
		})
		if logErr != nil {
			d.logger.Warn("failed to log execution status", "conversation_id", conversationID, "error", logErr)
		}
	}

	return result, nil
}

func (d *Dispatcher) simulatePage(project *storage.Project, params map[string]any) (*ExecutionResult, error) {
	title, err := requireStringParam(params, "title")
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Page %q is queued for creation on project %q.", title, project.Name)
	return &ExecutionResult{
		Success:  true,
		TaskType: TaskCreatePage,
		Outcome: Outcome{
			Kind:        OutcomeSimulated,
			Description: desc,
			Details:     cmsDetails(project, map[string]string{"title": title}),
		},
		Message: desc + " CMS integration is pending execution.",
	}, nil
}

func (d *Dispatcher) simulatePost(project *storage.Project, params map[string]any) (*ExecutionResult, error) {
	title, err := requireStringParam(params, "title")
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Post %q is queued for publishing on project %q.", title, project.Name)
	return &ExecutionResult{
		Success:  true,
		TaskType: TaskCreatePost,
		Outcome: Outcome{
			Kind:        OutcomeSimulated,
			Description: desc,
			Details:     cmsDetails(project, map[string]string{"title": title}),
		},
		Message: desc + " CMS integration is pending execution.",
	}, nil
}

func (d *Dispatcher) simulateContentUpdate(project *storage.Project, params map[string]any) (*ExecutionResult, error) {
	target, err := requireStringParam(params, "target")
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Content update for %q is queued on project %q.", target, project.Name)
	return &ExecutionResult{
		Success:  true,
		TaskType: TaskUpdateContent,
		Outcome: Outcome{
			Kind:        OutcomeSimulated,
			Description: desc,
			Details:     cmsDetails(project, map[string]string{"target": target}),
		},
		Message: desc + " CMS integration is pending execution.",
	}, nil
}

func (d *Dispatcher) createTask(ctx context.Context, params map[string]any, conversationID string) (*ExecutionResult, error) {
	action, err := requireStringParam(params, "action")
	if err != nil {
		return nil, err
	}
	target, err := requireStringParam(params, "target")
	if err != nil {
		return nil, err
	}
	intent, err := requireStringParam(params, "intent")
	if err != nil {
		return nil, err
	}
	priority := stringParam(params, "priority")
	if priority == "" {
		priority = storage.PriorityMedium
	}

	in := CreateTaskInput{
		Action:   action,
		Target:   target,
		Intent:   intent,
		Priority: priority,
		Notes:    stringParam(params, "notes"),
	}
	if conversationID != "" {
		in.ConversationID = &conversationID
	}

	task, err := d.svc.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Task recorded: %s %s (%s priority).", task.Action, task.Target, task.Priority)
	return &ExecutionResult{
		Success:  true,
		TaskType: TaskCreateTask,
		Outcome: Outcome{
			Kind:        OutcomePerformed,
			Description: desc,
			Task:        task,
		},
		Message: desc,
	}, nil
}

func cmsDetails(project *storage.Project, extra map[string]string) map[string]string {
	details := map[string]string{
		"project": project.ID,
		"cms":     project.CMS,
		"domain":  project.Domain,
		"status":  "pending_execution",
	}
	for k, v := range extra {
		details[k] = v
	}
	return details
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func requireStringParam(params map[string]any, key string) (string, error) {
	v := stringParam(params, key)
	if v == "" {
		return "", validationf("parameter %q is required", key)
	}
	return v, nil
}
