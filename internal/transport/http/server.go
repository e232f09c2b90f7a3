package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/beamchat-server/internal/auth"
	"github.com/vovakirdan/beamchat-server/internal/calltoken"
	"github.com/vovakirdan/beamchat-server/internal/config"
	"github.com/vovakirdan/beamchat-server/internal/core"
	"github.com/vovakirdan/beamchat-server/internal/store"
)

// NewServer builds the HTTP server: websocket endpoint plus the REST
// surface for auth, chat history, shared media and call tokens.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, issuer calltoken.Issuer, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.EventsPerMinute, logger)))

	apiHandlers := NewAPIHandlers(authService, logger)
	chatHandlers := NewChatHandlers(hub, st, logger)
	callHandlers := NewCallHandlers(issuer, logger)
	userHandlers := NewUserHandlers(st, hub.Presence(), logger)

	api := router.Group("/api")
	api.POST("/auth/register", apiHandlers.Register)
	api.POST("/auth/login", apiHandlers.Login)

	authed := api.Group("", AuthMiddleware(authService, logger))
	authed.DELETE("/chat/:room", chatHandlers.DeleteHistory)
	authed.GET("/chat/media/:user", chatHandlers.ListSharedMedia)
	authed.GET("/calls/token", callHandlers.JoinToken)
	authed.GET("/users/search", userHandlers.SearchUsers)
	authed.GET("/users/:username", userHandlers.GetUser)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
