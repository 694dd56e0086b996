package router

import (
	"github.com/it-is-Aman/ram-enterprise/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupHealthRoutes(e *echo.Echo, handler *rest.HealthHandler) {
	e.GET("/health", handler.Health)
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/profile", handler.GetProfile, authRequired)
	users.PUT("/profile", handler.UpdateProfile, authRequired)
	users.PUT("/password", handler.ChangePassword, authRequired)

	users.GET("", handler.ListUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUser, authRequired, adminOnly)
	users.PUT("/:id/role", handler.UpdateUserRole, authRequired, adminOnly)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.ListCategories)
	categories.GET("/slug/:slug", handler.GetCategoryBySlug)
	categories.GET("/:id", handler.GetCategory)

	categories.POST("", handler.CreateCategory, authRequired, adminOnly)
	categories.PUT("/:id", handler.UpdateCategory, authRequired, adminOnly)
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, adminOnly)
}

// SetupProductRoutes registers the catalogue. Public reads use optionalAuth
// so admins can see inactive products.
func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired, optionalAuth, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.ListProducts, optionalAuth)
	products.GET("/slug/:slug", handler.GetProductBySlug, optionalAuth)
	products.GET("/low-stock", handler.ListLowStock, authRequired, adminOnly)
	products.GET("/export", handler.ExportProducts, authRequired, adminOnly)
	products.GET("/:id", handler.GetProduct, optionalAuth)

	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
}

func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler, authRequired echo.MiddlewareFunc) {
	cart := api.Group("/cart", authRequired)

	cart.GET("", handler.GetCart)
	cart.DELETE("", handler.ClearCart)
	cart.POST("/items", handler.AddItem)
	cart.PUT("/items/:productId", handler.UpdateItem)
	cart.DELETE("/items/:productId", handler.RemoveItem)
}

func SetupWishlistRoutes(api *echo.Group, handler *rest.WishlistHandler, authRequired echo.MiddlewareFunc) {
	wishlist := api.Group("/wishlist", authRequired)

	wishlist.GET("", handler.GetWishlist)
	wishlist.DELETE("", handler.ClearWishlist)
	wishlist.POST("/items", handler.AddItem)
	wishlist.DELETE("/items/:productId", handler.RemoveItem)
	wishlist.POST("/items/:productId/move-to-cart", handler.MoveToCart)
}

func SetOrdersRoutes(api *echo.Group, ordersHandler *rest.OrdersHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)

	orders.POST("", ordersHandler.CreateOrder)
	orders.GET("/my", ordersHandler.GetMyOrders)
	orders.GET("/:id", ordersHandler.GetOrder)
	orders.PUT("/:id/cancel", ordersHandler.CancelOrder)

	orders.GET("", ordersHandler.ListOrders, adminOnly)
	orders.GET("/export", ordersHandler.ExportOrders, adminOnly)
	orders.PUT("/:id/status", ordersHandler.UpdateOrderStatus, adminOnly)
}

func SetupReviewRoutes(api *echo.Group, handler *rest.ReviewHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	reviews := api.Group("/reviews")

	reviews.GET("/product/:productId", handler.ListProductReviews)
	reviews.GET("/product/:productId/eligibility", handler.CheckEligibility, authRequired)
	reviews.POST("/product/:productId", handler.CreateReview, authRequired)

	reviews.GET("/my", handler.ListMyReviews, authRequired)
	reviews.PUT("/:id", handler.UpdateReview, authRequired)
	reviews.DELETE("/:id", handler.DeleteReview, authRequired)

	reviews.GET("", handler.ListReviews, authRequired, adminOnly)
}

func SetupInquiryRoutes(api *echo.Group, handler *rest.InquiryHandler, authRequired, optionalAuth, adminOnly echo.MiddlewareFunc) {
	inquiries := api.Group("/inquiries")

	inquiries.POST("", handler.CreateInquiry, optionalAuth)
	inquiries.GET("/my", handler.ListMyInquiries, authRequired)

	inquiries.GET("", handler.ListInquiries, authRequired, adminOnly)
	inquiries.GET("/:id", handler.GetInquiry, authRequired, adminOnly)
	inquiries.PUT("/:id", handler.UpdateInquiry, authRequired, adminOnly)
	inquiries.DELETE("/:id", handler.DeleteInquiry, authRequired, adminOnly)
}

func SetupDashboardRoutes(api *echo.Group, handler *rest.DashboardHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	dashboard := api.Group("/dashboard", authRequired, adminOnly)

	dashboard.GET("/stats", handler.GetStats)
	dashboard.GET("/sales", handler.GetSalesReport)
}
