package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/kmaruoka/maherama-sub000/internal/apierr"
  "github.com/kmaruoka/maherama-sub000/internal/logger"
)

func HealthCheck(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps service errors onto HTTP responses. Domain outcomes
// carry their own status; configuration errors are logged loudly and
// surfaced as opaque 500s since they indicate bad reference data, not
// user error.
func respondError(c *gin.Context, log *logger.Logger, err error) {
  apiErr := apierr.From(err)
  if apiErr == nil {
    log.Error("unhandled error", "path", c.FullPath(), "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
    return
  }

  if apiErr.Code == apierr.CodeConfigurationError {
    log.Error("configuration error", "path", c.FullPath(), "error", apiErr)
    c.JSON(apiErr.Status, gin.H{"error": "service configuration error"})
    return
  }

  body := gin.H{"error": apiErr.Error()}
  for k, v := range apiErr.Meta {
    body[k] = v
  }
  c.JSON(apiErr.Status, body)
}
