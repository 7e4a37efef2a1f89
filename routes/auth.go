package routes

import (
	authControllers "github.com/KTZN/ShoppingCartApi/controllers/auth"
	"github.com/KTZN/ShoppingCartApi/services"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers the public "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, authService *services.AuthService) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authControllers.Register(authService)) // POST /auth/register
		authGroup.POST("/login", authControllers.Login(authService))       // POST /auth/login
	}
}
