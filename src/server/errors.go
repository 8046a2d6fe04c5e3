package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agencykit/assistant/src/assistant"
)

// errorBody is the error envelope: a stable kind tag plus a human-readable
// detail. Internal identifiers and wrapped causes never reach the detail
// field.
type errorBody struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) writeError(c *gin.Context, err error) {
	var ve *assistant.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: assistant.KindValidation, Detail: ve.Detail}})
		return
	}

	var nfe *assistant.NotFoundError
	if errors.As(err, &nfe) {
		c.JSON(http.StatusNotFound, gin.H{"error": errorBody{Kind: assistant.KindNotFound, Detail: nfe.Error()}})
		return
	}

	var ge *assistant.GatewayError
	if errors.As(err, &ge) {
		c.JSON(http.StatusBadGateway, gin.H{"error": errorBody{Kind: assistant.KindGateway, Detail: ge.Detail}})
		return
	}

	s.logger.Error("request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{Kind: assistant.KindStore, Detail: "internal error"}})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: assistant.KindValidation, Detail: detail}})
}
