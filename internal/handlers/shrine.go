package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/services"
)

type ShrineHandler struct {
  log           *logger.Logger
  shrineService services.ShrineService
}

func NewShrineHandler(log *logger.Logger, shrineService services.ShrineService) *ShrineHandler {
  return &ShrineHandler{log: log.With("handler", "ShrineHandler"), shrineService: shrineService}
}

func (sh *ShrineHandler) List(c *gin.Context) {
  shrines, err := sh.shrineService.List(c.Request.Context())
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"shrines": shrines})
}

func (sh *ShrineHandler) Get(c *gin.Context) {
  shrineID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shrine id"})
    return
  }

  // Shrine detail works without identity; the caller's prayer counts are
  // zero when the header is absent.
  userID := uuid.Nil
  if raw := c.GetHeader("x-user-id"); raw != "" {
    if parsed, err := uuid.Parse(raw); err == nil {
      userID = parsed
    }
  }

  detail, err := sh.shrineService.Get(c.Request.Context(), shrineID, userID)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  c.JSON(http.StatusOK, detail)
}
