package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/saferoute-backend-go/internal/config"
	"github.com/jengzang/saferoute-backend-go/internal/handler"
	"github.com/jengzang/saferoute-backend-go/internal/middleware"
	"github.com/jengzang/saferoute-backend-go/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, routing *service.RoutingService, hazards *service.HazardService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	routeHandler := handler.NewRouteHandler(routing, hazards, service.NewMapService())
	hazardHandler := handler.NewHazardHandler(hazards)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		counters := routing.CacheCounters()
		c.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"timestamp":      time.Now().Format(time.RFC3339),
			"hazard_zones":   hazards.Count(),
			"hazard_version": hazards.Version(),
			"caches":         counters,
		})
	})

	// 路线计算
	r.POST("/route", middleware.RateLimit(cfg.RateLimit, cfg.RateLimitWindow), routeHandler.ComputeRoute)
	r.GET("/route/:id", routeHandler.GetRoute)
	r.GET("/route/:id/stats", routeHandler.GetRouteStats)
	r.GET("/map/:id", routeHandler.GetRouteMap)

	// 危险区管理
	r.GET("/hazards", hazardHandler.ListHazards)
	auth := middleware.RequireAuth(cfg.JWTSecret)
	r.POST("/hazards", auth, hazardHandler.AddHazard)
	r.DELETE("/hazards/:id", auth, hazardHandler.DeleteHazard)

	return r
}
