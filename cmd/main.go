package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/kmaruoka/maherama-sub000/internal/cache"
  "github.com/kmaruoka/maherama-sub000/internal/db"
  "github.com/kmaruoka/maherama-sub000/internal/db/seed"
  "github.com/kmaruoka/maherama-sub000/internal/handlers"
  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/middleware"
  "github.com/kmaruoka/maherama-sub000/internal/observability"
  "github.com/kmaruoka/maherama-sub000/internal/repos"
  "github.com/kmaruoka/maherama-sub000/internal/server"
  "github.com/kmaruoka/maherama-sub000/internal/services"
  "github.com/kmaruoka/maherama-sub000/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  serviceName := utils.GetEnv("SERVICE_NAME", "maherama", log)

  // Tracing
  shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: serviceName,
    Environment: utils.GetEnv("ENVIRONMENT", "development", log),
  })
  if shutdownOtel != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownOtel(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Reference data
  seedPath := utils.GetEnv("SEED_PATH", "", log)
  if seedPath != "" {
    seedData, err := seed.Load(seedPath)
    if err != nil {
      log.Error("Seed load failed", "path", seedPath, "error", err)
      os.Exit(1)
    }
    if err := seedData.Apply(thePG); err != nil {
      log.Error("Seed apply failed", "path", seedPath, "error", err)
      os.Exit(1)
    }
    log.Info("Reference data seeded", "path", seedPath)
  }

  // Redis (optional)
  redisClient := cache.NewRedisClient(log)
  effectCache := cache.NewEffectCache(redisClient, 30*time.Second, log)

  // Repos
  log.Info("Setting up repos...")
  userRepo := repos.NewUserRepo(thePG, log)
  tierRepo := repos.NewLevelTierRepo(thePG, log)
  abilityDefRepo := repos.NewAbilityDefinitionRepo(thePG, log)
  userAbilityRepo := repos.NewUserAbilityRepo(thePG, log)
  ledgerRepo := repos.NewAbilityLedgerRepo(thePG, log)
  subscriptionRepo := repos.NewSubscriptionRepo(thePG, log)
  shrineRepo := repos.NewShrineRepo(thePG, log)
  statsRepo := repos.NewPrayerStatsRepo(thePG, log)
  remotePrayerRepo := repos.NewRemotePrayerRepo(thePG, log)

  // Services
  log.Info("Setting up services...")
  effectService := services.NewEffectService(thePG, log, userRepo, tierRepo, userAbilityRepo, subscriptionRepo, effectCache)
  progressionService := services.NewProgressionService(thePG, log, userRepo, tierRepo, effectService)
  statsService := services.NewStatsService(thePG, log, statsRepo, shrineRepo)
  quotaService := services.NewQuotaService(thePG, log, remotePrayerRepo)
  abilityService := services.NewAbilityService(thePG, log, userRepo, abilityDefRepo, userAbilityRepo, ledgerRepo, subscriptionRepo, effectService)
  prayerService := services.NewPrayerService(thePG, log, shrineRepo, effectService, statsService, progressionService, quotaService)
  userService := services.NewUserService(thePG, log, userRepo, tierRepo)
  shrineService := services.NewShrineService(thePG, log, shrineRepo, statsService)

  // Handlers
  log.Info("Setting up handlers...")
  prayerHandler := handlers.NewPrayerHandler(log, prayerService)
  abilityHandler := handlers.NewAbilityHandler(log, abilityService)
  userHandler := handlers.NewUserHandler(log, userService, effectService, quotaService)
  shrineHandler := handlers.NewShrineHandler(log, shrineService)

  // Middleware
  identityMiddleware := middleware.NewIdentityMiddleware(log)

  // Router
  log.Info("Setting up router...")
  router := server.NewRouter(server.RouterConfig{
    ServiceName:        serviceName,
    IdentityMiddleware: identityMiddleware,
    PrayerHandler:      prayerHandler,
    AbilityHandler:     abilityHandler,
    UserHandler:        userHandler,
    ShrineHandler:      shrineHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Server listening", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server exited", "error", err)
    os.Exit(1)
  }
}
