package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/beamchat-server/internal/calltoken"
)

// CallHandlers hands authenticated users off to the video-call transport.
type CallHandlers struct {
	issuer calltoken.Issuer
	log    *zerolog.Logger
}

// NewCallHandlers creates a new call handlers instance.
func NewCallHandlers(issuer calltoken.Issuer, logger *zerolog.Logger) *CallHandlers {
	return &CallHandlers{
		issuer: issuer,
		log:    logger,
	}
}

// JoinToken issues join credentials for a call room. The identity is
// taken from the authenticated token, never from the query.
// GET /api/calls/token?room=...
func (h *CallHandlers) JoinToken(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	room := c.Query("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room is required"})
		return
	}

	token, err := h.issuer.IssueJoinToken(c.Request.Context(), room, username)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Str("identity", username).Msg("failed to issue join token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, token)
}
