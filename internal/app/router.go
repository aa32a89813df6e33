package app

import (
	"pulsebeat_backend/internal/config"
	"pulsebeat_backend/internal/middleware"
	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)

		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/products", c.product.List)
		public.GET("/products/featured", c.product.Featured)
		public.GET("/products/categories", c.product.Categories)
		public.GET("/products/search", c.product.Search)
		public.GET("/products/:slug", c.product.Detail)
	}

	// The chatbot and the cart work for guests; a valid token upgrades
	// the session with the customer's identity.
	optional := router.Group("/api")
	optional.Use(middleware.TryAuthMiddleware(cfg))
	{
		optional.POST("/chatbot/chat", c.chat.Chat)

		optional.POST("/cart/add", c.cart.AddItem)
		optional.GET("/cart", c.cart.Get)
		optional.GET("/cart/stat", c.cart.Stat)
		optional.GET("/cart/contains", c.cart.ProductIn)
		optional.PUT("/cart/item", c.cart.UpdateQuantity)
		optional.DELETE("/cart/item/:id", c.cart.RemoveItem)

		optional.POST("/payments/flutterwave/callback", c.payment.FlutterwaveCallback)
		optional.GET("/payments/paypal/callback", c.payment.PayPalCallback)
	}

	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.GET("/user/me", c.auth.Me)
		authorized.PUT("/user/me", c.auth.UpdateProfile)

		authorized.POST("/payments/flutterwave/initiate", c.payment.InitiateFlutterwave)
		authorized.POST("/payments/paypal/initiate", c.payment.InitiatePayPal)
		authorized.GET("/payments/history", c.payment.History)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/products", c.product.Create)
		admin.PUT("/products/:id", c.product.Update)
		admin.DELETE("/products/:id", c.product.Delete)
		admin.POST("/products/image", c.product.UploadImage)

		admin.GET("/chat/reviews", c.review.Pending)
		admin.PUT("/chat/reviews/:id", c.review.Resolve)
	}
}
