package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"olist_back_end/internal/config"
	"olist_back_end/internal/handlers"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, origins []string) {
	r.Use(cors.New(corsConfig(origins)))

	r.GET("/", h.Home)

	// PostgreSQL
	r.GET("/customers", h.GetCustomers)
	r.GET("/orders", h.GetOrders)

	switch h.Variant() {
	case config.VariantRelational:
		r.GET("/order_items", h.GetOrderItems)
	case config.VariantHybrid:
		// MongoDB
		r.GET("/products", h.GetProducts)
		r.GET("/reviews", h.GetReviews)
		r.GET("/user_profiles", h.GetUserProfiles)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
