package routes

import (
	"github.com/KTZN/ShoppingCartApi/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up Auth, User, and Admin
// route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, jwtSecret string) {
	authService := services.NewAuthService(db, jwtSecret)
	cartService := services.NewCartService(db)

	// Public auth routes (no middleware)
	SetupAuthRoutes(r, authService)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db, cartService, jwtSecret)

	// Admin routes (JWT + Admin role)
	SetupAdminRoutes(r, db, cartService, jwtSecret)
}
