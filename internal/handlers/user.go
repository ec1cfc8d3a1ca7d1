package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/services"
)

func parseUserParam(c *gin.Context) (uuid.UUID, error) {
  return uuid.Parse(c.Param("id"))
}

type UserHandler struct {
  log           *logger.Logger
  userService   services.UserService
  effectService services.EffectService
  quotaService  services.QuotaService
}

func NewUserHandler(log *logger.Logger, userService services.UserService, effectService services.EffectService, quotaService services.QuotaService) *UserHandler {
  return &UserHandler{
    log:           log.With("handler", "UserHandler"),
    userService:   userService,
    effectService: effectService,
    quotaService:  quotaService,
  }
}

func (uh *UserHandler) LevelInfo(c *gin.Context) {
  userID, err := parseUserParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
    return
  }

  info, err := uh.userService.GetLevelInfo(c.Request.Context(), userID)
  if err != nil {
    respondError(c, uh.log, err)
    return
  }
  c.JSON(http.StatusOK, info)
}

func (uh *UserHandler) PrayDistance(c *gin.Context) {
  userID, err := parseUserParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
    return
  }

  distance, err := uh.effectService.PrayDistance(c.Request.Context(), userID)
  if err != nil {
    respondError(c, uh.log, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"distance": distance})
}

func (uh *UserHandler) WorshipLimit(c *gin.Context) {
  userID, err := parseUserParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
    return
  }

  limit, err := uh.effectService.WorshipLimit(c.Request.Context(), userID)
  if err != nil {
    respondError(c, uh.log, err)
    return
  }
  used, err := uh.quotaService.RemoteWorshipsToday(c.Request.Context(), userID)
  if err != nil {
    respondError(c, uh.log, err)
    return
  }

  remaining := limit - used
  if remaining < 0 {
    remaining = 0
  }
  c.JSON(http.StatusOK, gin.H{
    "limit":     limit,
    "used":      used,
    "remaining": remaining,
  })
}
