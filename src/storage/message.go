package storage

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/oklog/ulid/v2"
)

// CreateMessage inserts one immutable message row. Message IDs are ULIDs so
// lexicographic id order agrees with creation order.
func CreateMessage(ctx context.Context, db Execer, msg *Message) error {
	if msg.ID == "" {
		msg.ID = ulid.Make().String()
	}
	if msg.Kind == "" {
		msg.Kind = KindText
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO messages (id, conversation_id, author, agent_id, kind, text, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		msg.ID,
		msg.ConversationID,
		msg.Author,
		msg.AgentID,
		msg.Kind,
		msg.Text,
		msg.CreatedAt,
	)
	return err
}

// ListMessages retrieves all messages for a conversation ordered by creation
// time, id as tiebreak. Returns an empty slice for a conversation with no
// messages.
func ListMessages(ctx context.Context, db sqlscan.Querier, conversationID string) ([]Message, error) {
	query := `SELECT id, conversation_id, author, agent_id, kind, text, created_at FROM messages WHERE conversation_id = ? ORDER BY created_at, id`
	var messages []Message
	if err := sqlscan.Select(ctx, db, &messages, query, conversationID); err != nil {
		return nil, err
	}
	return messages, nil
}

// CountMessages returns the number of messages in a conversation.
func CountMessages(ctx context.Context, db sqlscan.Querier, conversationID string) (int, error) {
	var count int
	err := sqlscan.Get(ctx, db, &count, `SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversationID)
	return count, err
}
