package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/beamchat-server/internal/core"
	"github.com/vovakirdan/beamchat-server/internal/store"
)

// UserHandlers provides HTTP handlers for user lookups.
type UserHandlers struct {
	store    store.Store
	presence *core.Presence
	log      *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.Store, presence *core.Presence, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store:    st,
		presence: presence,
		log:      logger,
	}
}

// UserResponse represents a user in API responses. Status follows the
// same vocabulary as the event protocol.
type UserResponse struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	ProfileImg string     `json:"profileImg,omitempty"`
	Status     string     `json:"status"`
	LastSeen   *time.Time `json:"lastSeen,omitempty"`
}

// SearchUsers handles searching for users.
// GET /api/users/search?q=query
func (h *UserHandlers) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "search query must be at least 2 characters"})
		return
	}

	username, _ := currentUsername(c)

	users, err := h.store.SearchUsers(c.Request.Context(), query)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("failed to search users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		// Don't show the requester to themselves.
		if u.Username == username {
			continue
		}
		response = append(response, h.toResponse(c, u))
	}
	c.JSON(http.StatusOK, response)
}

// GetUser returns one user with their resolved presence status.
// GET /api/users/:username
func (h *UserHandlers) GetUser(c *gin.Context) {
	target := c.Param("username")

	user, err := h.store.GetUserByUsername(c.Request.Context(), target)
	if err != nil {
		h.log.Error().Err(err).Str("username", target).Msg("failed to fetch user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(c, user))
}

func (h *UserHandlers) toResponse(c *gin.Context, u *store.User) UserResponse {
	status := h.presence.QueryStatus(c.Request.Context(), u.Username)
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		ProfileImg: u.ProfileImg,
		Status:     status.State,
		LastSeen:   status.LastSeen,
	}
}
