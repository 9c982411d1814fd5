// Package server assembles the HTTP router and runs it with graceful shutdown.
package server

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"argentbank/internal/auth"
	"argentbank/internal/config"
	"argentbank/internal/handlers"
	"argentbank/internal/middleware"
	"argentbank/internal/services"
	"argentbank/internal/validator"

	_ "argentbank/internal/docs" // Import swagger docs
)

// Deps are the services the router dispatches to.
type Deps struct {
	Users        services.UserServicer
	Transactions services.TransactionServicer
	Audit        services.AuditServicer
	Tokens       *auth.TokenManager
}

// NewRouter builds the gin engine with the middleware chain and all routes.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Audit)
	profileHandler := handlers.NewProfileHandler(deps.Users, deps.Audit)
	transactionHandler := handlers.NewTransactionHandler(deps.Transactions, deps.Audit)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.ErrorHandler())

	if !cfg.IsProduction() {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	user := router.Group("/api/v1/user")

	// Public routes
	user.POST("/signup", authHandler.Signup)
	user.POST("/login", authHandler.Login)

	// Protected routes
	protected := user.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))

	protected.GET("/profile", profileHandler.GetProfile)
	protected.POST("/profile", profileHandler.GetProfile)
	protected.PUT("/profile", profileHandler.UpdateProfile)

	protected.GET("/transaction", transactionHandler.ListTransactions)
	protected.POST("/transaction", transactionHandler.ListTransactions)
	protected.GET("/transaction/:id", transactionHandler.GetTransactionDetails)
	protected.POST("/transaction/:id", transactionHandler.GetTransactionDetails)
	protected.PUT("/transaction/:id", transactionHandler.UpdateTransactionDetails)
	protected.DELETE("/transaction/:id", transactionHandler.DeleteTransactionDetails)

	return router
}
