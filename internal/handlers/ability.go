package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/middleware"
  "github.com/kmaruoka/maherama-sub000/internal/services"
)

type AbilityHandler struct {
  log            *logger.Logger
  abilityService services.AbilityService
}

func NewAbilityHandler(log *logger.Logger, abilityService services.AbilityService) *AbilityHandler {
  return &AbilityHandler{log: log.With("handler", "AbilityHandler"), abilityService: abilityService}
}

func (ah *AbilityHandler) Acquire(c *gin.Context) {
  abilityID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ability id"})
    return
  }

  result, err := ah.abilityService.Purchase(c.Request.Context(), middleware.UserID(c), abilityID)
  if err != nil {
    respondError(c, ah.log, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{
    "success":        true,
    "cost":           result.Cost,
    "ability_points": result.AbilityPoints,
  })
}

func (ah *AbilityHandler) Reset(c *gin.Context) {
  refunded, err := ah.abilityService.Reset(c.Request.Context(), middleware.UserID(c))
  if err != nil {
    respondError(c, ah.log, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{
    "success":        true,
    "refundedPoints": refunded,
  })
}

func (ah *AbilityHandler) List(c *gin.Context) {
  defs, err := ah.abilityService.ListDefinitions(c.Request.Context())
  if err != nil {
    respondError(c, ah.log, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"abilities": defs})
}

func (ah *AbilityHandler) Owned(c *gin.Context) {
  userID, err := parseUserParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
    return
  }

  owned, err := ah.abilityService.ListOwned(c.Request.Context(), userID)
  if err != nil {
    respondError(c, ah.log, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"abilities": owned})
}
