package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dappstore-io/passport/service"
)

// SetupRouter sets up the Gin router.
func SetupRouter(authService *service.AuthService) *gin.Engine {
	router := gin.Default()

	handlers := NewAuthHandlers(authService)

	auth := router.Group("/auth")
	{
		auth.POST("/nonce", handlers.Nonce)
		auth.POST("/login", handlers.Login)
		auth.POST("/google", handlers.LoginWithGoogle)
	}

	protected := router.Group("/auth")
	protected.Use(AuthMiddleware(authService))
	{
		protected.GET("/me", handlers.Me)
		protected.POST("/logout", handlers.Logout)
	}

	return router
}
