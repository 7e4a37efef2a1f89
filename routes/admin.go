package routes

import (
	cartControllers "github.com/KTZN/ShoppingCartApi/controllers/cart"
	productControllers "github.com/KTZN/ShoppingCartApi/controllers/product"
	userControllers "github.com/KTZN/ShoppingCartApi/controllers/user"
	"github.com/KTZN/ShoppingCartApi/middleware"
	"github.com/KTZN/ShoppingCartApi/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a token
// carrying the Admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cartService *services.CartService, jwtSecret string) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken(jwtSecret), middleware.RequireAdmin())
	{
		// ──────────────── Users ────────────────
		adminGroup.GET("/users", userControllers.GetAllUsers(db))                  // GET /admin/users
		adminGroup.GET("/carts/:user_id", cartControllers.GetAdminUserCart(cartService)) // GET /admin/carts/:user_id

		// ──────────────── Catalog ────────────────
		adminGroup.POST("/products", productControllers.CreateProduct(db))              // POST /admin/products
		adminGroup.PUT("/products/:id", productControllers.UpdateProduct(db))           // PUT /admin/products/:id
		adminGroup.DELETE("/products/:id", productControllers.DeleteProduct(db))        // DELETE /admin/products/:id
		adminGroup.GET("/products/export", productControllers.ExportProductsToExcel(db)) // GET /admin/products/export
		adminGroup.POST("/products/import", productControllers.ImportProductsFromExcel(db)) // POST /admin/products/import
	}
}
