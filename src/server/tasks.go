package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agencykit/assistant/src/assistant"
	"github.com/agencykit/assistant/src/storage"
)

type createTaskRequest struct {
	ConversationID *string `json:"conversation_id,omitempty"`
	Action         string  `json:"action" binding:"required"`
	Target         string  `json:"target" binding:"required"`
	Intent         string  `json:"intent" binding:"required"`
	Priority       string  `json:"priority" binding:"required"`
	Status         string  `json:"status,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "action, target, intent and priority are required")
		return
	}

	task, err := s.svc.CreateTask(c.Request.Context(), assistant.CreateTaskInput{
		ConversationID: req.ConversationID,
		Action:         req.Action,
		Target:         req.Target,
		Intent:         req.Intent,
		Priority:       req.Priority,
		Status:         req.Status,
		Notes:          req.Notes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.svc.ListTasks(c.Request.Context(), storage.TaskFilter{
		ConversationID: c.Query("conversation_id"),
		Status:         c.Query("status"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.svc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

type updateTaskRequest struct {
	Action   *string `json:"action,omitempty"`
	Target   *string `json:"target,omitempty"`
	Intent   *string `json:"intent,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	task, err := s.svc.UpdateTask(c.Request.Context(), c.Param("id"), assistant.UpdateTaskInput{
		Action:   req.Action,
		Target:   req.Target,
		Intent:   req.Intent,
		Priority: req.Priority,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

type createProjectRequest struct {
	TenantID string  `json:"tenant_id" binding:"required"`
	ClientID *string `json:"client_id,omitempty"`
	Name     string  `json:"name" binding:"required"`
	Domain   string  `json:"domain,omitempty"`
	CMS      string  `json:"cms,omitempty"`
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "tenant_id and name are required")
		return
	}

	project, err := s.svc.CreateProject(c.Request.Context(), assistant.CreateProjectInput{
		TenantID: req.TenantID,
		ClientID: req.ClientID,
		Name:     req.Name,
		Domain:   req.Domain,
		CMS:      req.CMS,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}
