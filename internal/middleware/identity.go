package middleware

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
)

const userIDKey = "userID"

// IdentityMiddleware extracts the caller's user id from the x-user-id
// header. Authentication itself happens upstream; by the time a request
// reaches this service the header is trusted.
type IdentityMiddleware struct {
  log *logger.Logger
}

func NewIdentityMiddleware(log *logger.Logger) *IdentityMiddleware {
  return &IdentityMiddleware{log: log.With("middleware", "IdentityMiddleware")}
}

func (m *IdentityMiddleware) RequireUser() gin.HandlerFunc {
  return func(c *gin.Context) {
    raw := c.GetHeader("x-user-id")
    if raw == "" {
      c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "x-user-id header is required"})
      return
    }
    id, err := uuid.Parse(raw)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "x-user-id header is not a valid uuid"})
      return
    }
    c.Set(userIDKey, id)
    c.Next()
  }
}

// UserID returns the identity set by RequireUser, or uuid.Nil.
func UserID(c *gin.Context) uuid.UUID {
  val, ok := c.Get(userIDKey)
  if !ok {
    return uuid.Nil
  }
  id, ok := val.(uuid.UUID)
  if !ok {
    return uuid.Nil
  }
  return id
}
