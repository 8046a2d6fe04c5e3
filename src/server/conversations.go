package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agencykit/assistant/src/assistant"
	"github.com/agencykit/assistant/src/storage"
)

type createConversationRequest struct {
	TenantID     string          `json:"tenant_id" binding:"required"`
	UserID       string          `json:"user_id" binding:"required"`
	ClientID     *string         `json:"client_id,omitempty"`
	ProjectID    *string         `json:"project_id,omitempty"`
	CurrentAgent string          `json:"current_agent,omitempty"`
	Metadata     storage.JSONMap `json:"metadata,omitempty"`
}

func (s *Server) handleCreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "tenant_id and user_id are required")
		return
	}

	conv, err := s.svc.CreateConversation(c.Request.Context(), assistant.CreateConversationInput{
		TenantID:     req.TenantID,
		UserID:       req.UserID,
		ClientID:     req.ClientID,
		ProjectID:    req.ProjectID,
		CurrentAgent: req.CurrentAgent,
		Metadata:     req.Metadata,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversation": conv})
}

func (s *Server) handleListConversations(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	userID := c.Query("user_id")
	if tenantID == "" || userID == "" {
		badRequest(c, "tenant_id and user_id query parameters are required")
		return
	}
	activeOnly := c.Query("active_only") == "true"

	convs, err := s.svc.ListConversations(c.Request.Context(), tenantID, userID, activeOnly)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func filterFromQuery(c *gin.Context) storage.ConversationFilter {
	return storage.ConversationFilter{
		TenantID: c.Query("tenant_id"),
		UserID:   c.Query("user_id"),
	}
}

func (s *Server) handleGetConversation(c *gin.Context) {
	conv, err := s.svc.GetConversation(c.Request.Context(), c.Param("id"), filterFromQuery(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

type updateConversationRequest struct {
	CurrentAgent *string         `json:"current_agent,omitempty"`
	Active       *bool           `json:"active,omitempty"`
	Metadata     storage.JSONMap `json:"metadata,omitempty"`
}

func (s *Server) handleUpdateConversation(c *gin.Context) {
	var req updateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	conv, err := s.svc.UpdateConversation(c.Request.Context(), c.Param("id"), assistant.UpdateConversationInput{
		CurrentAgent: req.CurrentAgent,
		Active:       req.Active,
		Metadata:     req.Metadata,
	}, filterFromQuery(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

func (s *Server) handleCloseConversation(c *gin.Context) {
	conv, err := s.svc.CloseConversation(c.Request.Context(), c.Param("id"), filterFromQuery(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

type addMessageRequest struct {
	Author  string  `json:"author" binding:"required"`
	Text    string  `json:"text" binding:"required"`
	AgentID *string `json:"agent_id,omitempty"`
	Kind    string  `json:"kind,omitempty"`
}

func (s *Server) handleAddMessage(c *gin.Context) {
	var req addMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "author and text are required")
		return
	}

	msg, err := s.svc.AppendMessage(c.Request.Context(), assistant.AppendMessageInput{
		ConversationID: c.Param("id"),
		Author:         req.Author,
		Text:           req.Text,
		AgentID:        req.AgentID,
		Kind:           req.Kind,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (s *Server) handleListMessages(c *gin.Context) {
	msgs, err := s.svc.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
