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

const conversationColumns = `id, tenant_id, user_id, client_id, project_id, active, current_agent, metadata, started_at, closed_at, updated_at`

// ConversationFilter optionally narrows a lookup or mutation to a tenant and
// user. Empty fields are not applied. Narrowing is caller-supplied; it is not
// an authorization mechanism.
type ConversationFilter struct {
	TenantID string
	UserID   string
}

func (f ConversationFilter) apply(query string, args []interface{}) (string, []interface{}) {
	if f.TenantID != "" {
		query += " AND tenant_id = ?"
		args = append(args, f.TenantID)
	}
	if f.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, f.UserID)
	}
	return query, args
}

// CreateConversation creates a new conversation in the database
func CreateConversation(ctx context.Context, db Execer, conv *Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	if conv.CurrentAgent == "" {
		conv.CurrentAgent = "chief"
	}
	if conv.Metadata == nil {
		conv.Metadata = JSONMap{}
	}
	if conv.StartedAt.IsZero() {
		conv.StartedAt = time.Now().UTC()
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.StartedAt
	}
	conv.Active = true

	query := `INSERT INTO conversations (id, tenant_id, user_id, client_id, project_id, active, current_agent, metadata, started_at, closed_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		conv.ID,
		conv.TenantID,
		conv.UserID,
		conv.ClientID,
		conv.ProjectID,
		conv.Active,
		conv.CurrentAgent,
		conv.Metadata,
		conv.StartedAt,
		conv.ClosedAt,
		conv.UpdatedAt,
	)
	return err
}

// GetConversationByID retrieves a conversation by its ID, optionally narrowed
// by tenant and user. Returns nil when no row matches.
func GetConversationByID(ctx context.Context, db sqlscan.Querier, id string, filter ConversationFilter) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = ?`
	args := []interface{}{id}
	query, args = filter.apply(query, args)

	var conv Conversation
	err := sqlscan.Get(ctx, db, &conv, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return &conv, nil
}

// ListConversations retrieves conversations for a tenant/user pair ordered by
// start time descending.
func ListConversations(ctx context.Context, db sqlscan.Querier, tenantID, userID string, activeOnly bool) ([]Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE tenant_id = ? AND user_id = ?`
	args := []interface{}{tenantID, userID}
	if activeOnly {
		query += " AND active = 1"
	}
	query += " ORDER BY started_at DESC"

	var convs []Conversation
	if err := sqlscan.Select(ctx, db, &convs, query, args...); err != nil {
		return nil, err
	}
	return convs, nil
}

// ConversationUpdate holds the fields of a partial conversation update. Nil
// fields are left unchanged.
type ConversationUpdate struct {
	CurrentAgent *string
	Active       *bool
	Metadata     JSONMap // merged over the existing metadata by the caller
}

// UpdateConversation applies a partial update to one conversation row and
// refreshes updated_at. Returns false when no row matched the id plus filter.
func UpdateConversation(ctx context.Context, db Execer, id string, upd ConversationUpdate, filter ConversationFilter) (bool, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	if upd.CurrentAgent != nil {
		sets = append(sets, "current_agent = ?")
		args = append(args, *upd.CurrentAgent)
	}
	if upd.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *upd.Active)
	}
	if upd.Metadata != nil {
		sets = append(sets, "metadata = ?")
		args = append(args, upd.Metadata)
	}

	query := "UPDATE conversations SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	query, args = filter.apply(query, args)

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

// CloseConversation marks a conversation inactive and stamps closed_at.
// Closing an already-closed conversation succeeds and re-stamps closed_at.
// Returns false when no row matched the id plus filter.
func CloseConversation(ctx context.Context, db Execer, id string, filter ConversationFilter) (bool, error) {
	now := time.Now().UTC()
	query := `UPDATE conversations SET active = 0, closed_at = ?, updated_at = ? WHERE id = ?`
	args := []interface{}{now, now, id}
	query, args = filter.apply(query, args)

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
