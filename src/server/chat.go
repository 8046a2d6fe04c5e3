package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agencykit/assistant/src/assistant"
	"github.com/agencykit/assistant/src/storage"
)

type chatRequest struct {
	ConversationID string                  `json:"conversation_id,omitempty"`
	AgentID        string                  `json:"agent_id,omitempty"`
	Messages       []assistant.ChatMessage `json:"messages,omitempty"`
	TenantID       string                  `json:"tenant_id,omitempty"`
	UserID         string                  `json:"user_id,omitempty"`
}

// handleChat drives the completion gateway. With a conversation_id the full
// persisted flow runs (append, route, complete, append); without one the
// exchange is stateless over the supplied message list. The gateway call is
// bounded by the configured chat timeout.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	if len(req.Messages) == 0 {
		badRequest(c, "messages must not be empty")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.chatTimeout)
	defer cancel()

	if req.ConversationID != "" {
		last := req.Messages[len(req.Messages)-1]
		if last.Author != storage.AuthorUser {
			badRequest(c, "last message must be authored by the user")
			return
		}
		result, err := s.svc.Converse(ctx, assistant.ConverseInput{
			ConversationID: req.ConversationID,
			Text:           last.Text,
			Filter: storage.ConversationFilter{
				TenantID: req.TenantID,
				UserID:   req.UserID,
			},
		})
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  result.AgentMessage,
			"agent_id": result.AgentID,
			"usage":    result.Usage,
		})
		return
	}

	result, err := s.svc.Chat(ctx, req.AgentID, req.Messages)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  result.Reply,
		"agent_id": result.AgentID,
		"usage":    result.Usage,
	})
}

type executeRequest struct {
	TaskType       string         `json:"task_type" binding:"required"`
	Parameters     map[string]any `json:"parameters" binding:"required"`
	ProjectID      string         `json:"project_id" binding:"required"`
	ConversationID string         `json:"conversation_id,omitempty"`
}

func (s *Server) handleExecute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "task_type, parameters and project_id are required")
		return
	}

	result, err := s.dispatcher.Execute(c.Request.Context(), req.TaskType, req.Parameters, req.ProjectID, req.ConversationID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
