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

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cartService *services.CartService, jwtSecret string) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(jwtSecret))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db)) // GET /user/

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(cartService))                    // GET /user/cart
			cartGroup.POST("/items", cartControllers.AddCartItem(cartService))              // POST /user/cart/items
			cartGroup.DELETE("/items/:item_id", cartControllers.RemoveCartItem(cartService)) // DELETE /user/cart/items/:item_id
			cartGroup.POST("/checkout", cartControllers.CheckoutCart(cartService))          // POST /user/cart/checkout
		}

		// ──────────────── Browse Products ────────────────
		userGroup.GET("/products", productControllers.GetProducts(db))        // GET /user/products
		userGroup.GET("/products/:id", productControllers.GetProductByID(db)) // GET /user/products/:id
	}
}
