package router

import (
	"github.com/gin-gonic/gin"

	"github.com/tripwise/travel-auth/internal/api/http/handler"
	"github.com/tripwise/travel-auth/internal/api/http/middleware"
	"github.com/tripwise/travel-auth/internal/logger"
	"github.com/tripwise/travel-auth/internal/model"
	"github.com/tripwise/travel-auth/internal/service"
)

// Router wires the auth endpoints and middleware into a gin engine.
type Router struct {
	authService *service.Auth
	issuer      model.TokenIssuer
	logger      *logger.Logger
}

// New creates new Router instance.
func New(authService *service.Auth, issuer model.TokenIssuer, logger *logger.Logger) *Router {
	return &Router{
		authService: authService,
		issuer:      issuer,
		logger:      logger,
	}
}

// Register builds the gin engine with logging, recovery and route groups.
// Register, login and refresh are public; me and logout require a valid
// access token.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.issuer, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.Handle())

	authHandler := handler.NewAuth(r.authService, r.logger)

	api := engine.Group("/api/auth")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/refresh", authHandler.Refresh)

		authorized := api.Group("")
		authorized.Use(authenticate.Handle(handler.AccessTokenCookie))
		authorized.GET("/me", authHandler.Me)
		authorized.POST("/logout", authHandler.Logout)
	}

	return engine
}
