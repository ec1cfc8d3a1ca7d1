package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/kmaruoka/maherama-sub000/internal/geo"
  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/middleware"
  "github.com/kmaruoka/maherama-sub000/internal/services"
)

type PrayerHandler struct {
  log           *logger.Logger
  prayerService services.PrayerService
}

func NewPrayerHandler(log *logger.Logger, prayerService services.PrayerService) *PrayerHandler {
  return &PrayerHandler{log: log.With("handler", "PrayerHandler"), prayerService: prayerService}
}

type prayRequest struct {
  Lat *float64 `json:"lat"`
  Lng *float64 `json:"lng"`
}

func (ph *PrayerHandler) Pray(c *gin.Context) {
  shrineID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shrine id"})
    return
  }

  var req prayRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "request body with lat/lng is required"})
    return
  }

  var pos *geo.Position
  if req.Lat != nil && req.Lng != nil {
    pos = &geo.Position{Lat: *req.Lat, Lng: *req.Lng}
  }

  result, err := ph.prayerService.Pray(c.Request.Context(), middleware.UserID(c), shrineID, pos)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{
    "success":               true,
    "count":                 result.Count,
    "level_up":              result.LevelUp,
    "new_level":             result.NewLevel,
    "ability_points_gained": result.AbilityPointsGained,
  })
}

func (ph *PrayerHandler) RemotePray(c *gin.Context) {
  shrineID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shrine id"})
    return
  }

  result, err := ph.prayerService.RemotePray(c.Request.Context(), middleware.UserID(c), shrineID)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }

  c.JSON(http.StatusOK, gin.H{
    "success":               true,
    "count":                 result.Count,
    "level_up":              result.LevelUp,
    "new_level":             result.NewLevel,
    "ability_points_gained": result.AbilityPointsGained,
  })
}
