package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/kmaruoka/maherama-sub000/internal/handlers"
  "github.com/kmaruoka/maherama-sub000/internal/middleware"
)

type RouterConfig struct {
  ServiceName        string
  IdentityMiddleware *middleware.IdentityMiddleware
  PrayerHandler      *handlers.PrayerHandler
  AbilityHandler     *handlers.AbilityHandler
  UserHandler        *handlers.UserHandler
  ShrineHandler      *handlers.ShrineHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware(cfg.ServiceName))

  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:3000",
      "http://localhost:5173",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "x-user-id"},
    AllowCredentials: true,
  }))

  // Public
  router.GET("/healthcheck", handlers.HealthCheck)
  router.GET("/shrines", cfg.ShrineHandler.List)
  router.GET("/shrines/:id", cfg.ShrineHandler.Get)
  router.GET("/abilities", cfg.AbilityHandler.List)
  router.GET("/users/:id/level-info", cfg.UserHandler.LevelInfo)
  router.GET("/users/:id/pray-distance", cfg.UserHandler.PrayDistance)
  router.GET("/users/:id/worship-limit", cfg.UserHandler.WorshipLimit)
  router.GET("/users/:id/abilities", cfg.AbilityHandler.Owned)

  // Identity-bearing
  protected := router.Group("/")
  protected.Use(cfg.IdentityMiddleware.RequireUser())
  protected.POST("/shrines/:id/pray", cfg.PrayerHandler.Pray)
  protected.POST("/shrines/:id/remote-pray", cfg.PrayerHandler.RemotePray)
  protected.POST("/abilities/:id/acquire", cfg.AbilityHandler.Acquire)
  protected.POST("/abilities/:id/purchase", cfg.AbilityHandler.Acquire)
  protected.POST("/user/reset-abilities", cfg.AbilityHandler.Reset)

  return router
}
