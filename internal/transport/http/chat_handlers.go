package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/beamchat-server/internal/core"
	"github.com/vovakirdan/beamchat-server/internal/store"
)

// ChatHandlers provides HTTP handlers for chat history operations.
type ChatHandlers struct {
	hub   *core.Hub
	store store.Store
	log   *zerolog.Logger
}

// NewChatHandlers creates a new chat handlers instance.
func NewChatHandlers(hub *core.Hub, st store.Store, logger *zerolog.Logger) *ChatHandlers {
	return &ChatHandlers{
		hub:   hub,
		store: st,
		log:   logger,
	}
}

// MediaResponse represents one shared attachment in API responses.
type MediaResponse struct {
	FilePath string `json:"filePath"`
	FileKind string `json:"fileKind"`
}

// DeleteHistory hard-deletes all persisted messages for a room.
// DELETE /api/chat/:room
func (h *ChatHandlers) DeleteHistory(c *gin.Context) {
	room := c.Param("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room is required"})
		return
	}

	if err := h.hub.DeleteRoomHistory(c.Request.Context(), room); err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to delete history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "chat history deleted"})
}

// ListSharedMedia returns the attachments exchanged between the
// authenticated user and another identity, in either direction.
// GET /api/chat/media/:user
func (h *ChatHandlers) ListSharedMedia(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	other := c.Param("user")
	if other == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user is required"})
		return
	}

	media, err := h.store.ListMediaBetween(c.Request.Context(), username, other)
	if err != nil {
		h.log.Error().Err(err).Str("user", username).Str("other", other).Msg("failed to list media")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MediaResponse, 0, len(media))
	for _, m := range media {
		response = append(response, MediaResponse{FilePath: m.FilePath, FileKind: m.FileKind})
	}
	c.JSON(http.StatusOK, response)
}
