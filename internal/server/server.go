package server

import (
	"fmt"
	"os"

	"billetterie/config"
	"billetterie/internal/handlers"
	"billetterie/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	SetupRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
			eventPublic.GET("/:id/images", handlers.ListEventImages)
			eventPublic.GET("/:id/images/:imageId", handlers.GetEventImage)
		}

		themePublic := public.Group("/themes")
		{
			themePublic.GET("", handlers.ListThemes)
			themePublic.GET("/:id", handlers.GetTheme)
		}

		// Carts are anonymous pre-checkout state, addressed only by
		// their opaque id.
		cartPublic := public.Group("/carts")
		{
			cartPublic.POST("", handlers.CreateCart)
			cartPublic.GET("/:id", handlers.GetCart)
			cartPublic.DELETE("/:id", handlers.DeleteCart)
			cartPublic.POST("/:id/tickets", handlers.AddCartTicket)
			cartPublic.PUT("/:id/tickets/:ticketId", handlers.UpdateCartTicket)
			cartPublic.DELETE("/:id/tickets/:ticketId", handlers.DeleteCartTicket)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		orderProtected := protected.Group("/orders")
		{
			orderProtected.POST("", handlers.CreateOrder)
			orderProtected.GET("", handlers.ListOrders)
			orderProtected.GET("/:id", handlers.GetOrder)
			orderProtected.GET("/:id/tickets/:ticketId/qr", handlers.GenerateOrderTicketQR)
		}

		customerProtected := protected.Group("/customers")
		{
			customerProtected.GET("/me", handlers.GetMyCustomer)
			customerProtected.PUT("/me", handlers.UpdateMyCustomer)
		}
	}

	admin := r.Group("/v1")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminMiddleware())
	{
		eventAdmin := admin.Group("/events")
		{
			eventAdmin.POST("", handlers.CreateEvent)
			eventAdmin.PUT("/:id", handlers.UpdateEvent)
			eventAdmin.DELETE("/:id", handlers.DeleteEvent)
			eventAdmin.POST("/:id/images", handlers.CreateEventImage)
			eventAdmin.DELETE("/:id/images/:imageId", handlers.DeleteEventImage)
		}

		themeAdmin := admin.Group("/themes")
		{
			themeAdmin.POST("", handlers.CreateTheme)
			themeAdmin.PUT("/:id", handlers.UpdateTheme)
			themeAdmin.DELETE("/:id", handlers.DeleteTheme)
		}

		admin.PATCH("/orders/:id", handlers.UpdateOrder)
		admin.GET("/customers", handlers.ListCustomers)

		admin.GET("/admin/events/inventory", handlers.InventoryReport)
		admin.POST("/admin/events/clear-inventory", handlers.ClearInventory)
		admin.POST("/admin/carts/purge", handlers.PurgeCarts)
	}
}
