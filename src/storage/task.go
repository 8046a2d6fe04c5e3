package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

const taskColumns = `id, conversation_id, action, target, intent, priority, status, notes, created_at, updated_at`

// CreateTask creates a new task in the database. Enum validation happens at
// the service layer before this is called.
func CreateTask(ctx context.Context, db Execer, task *Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = StatusOpen
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}

	query := `INSERT INTO tasks (id, conversation_id, action, target, intent, priority, status, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		task.ID,
		task.ConversationID,
		task.Action,
		task.Target,
		task.Intent,
		task.Priority,
		task.Status,
		task.Notes,
		task.CreatedAt,
		task.UpdatedAt,
	)
	return err
}

// GetTaskByID retrieves a task by its ID. Returns nil when no row matches.
func GetTaskByID(ctx context.Context, db sqlscan.Querier, id string) (*Task, error) {
	var task Task
	err := sqlscan.Get(ctx, db, &task, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return &task, nil
}

// TaskFilter optionally narrows a task listing.
type TaskFilter struct {
	ConversationID string
	Status         string
}

// ListTasks retrieves tasks ordered by creation time descending.
func ListTasks(ctx context.Context, db sqlscan.Querier, filter TaskFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []interface{}
	if filter.ConversationID != "" {
		query += " AND conversation_id = ?"
		args = append(args, filter.ConversationID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"

	var tasks []Task
	if err := sqlscan.Select(ctx, db, &tasks, query, args...); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskUpdate holds the fields of a partial task update. Nil fields are left
// unchanged.
type TaskUpdate struct {
	Action   *string
	Target   *string
	Intent   *string
	Priority *string
	Status   *string
	Notes    *string
}

// UpdateTask applies a partial update to one task row and refreshes
// updated_at. Returns false when no row matched.
func UpdateTask(ctx context.Context, db Execer, id string, upd TaskUpdate) (bool, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	set := func(column string, v *string) {
		if v != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *v)
		}
	}
	set("action", upd.Action)
	set("target", upd.Target)
	set("intent", upd.Intent)
	set("priority", upd.Priority)
	set("status", upd.Status)
	set("notes", upd.Notes)

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
