package repos

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/types"
)

type SubscriptionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, sub *types.Subscription) error
  // GetActive returns the user's active, unexpired subscription of the
  // given type. Rows past ExpiresAt are skipped even when is_active is
  // still set (lazy expiry); the newest row wins when several match.
  GetActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, subType string, now time.Time) (*types.Subscription, error)
  // Deactivate consumes a still-active subscription. A row that is
  // already inactive yields ErrNotFound so callers can detect a
  // double consume.
  Deactivate(ctx context.Context, tx *gorm.DB, subscriptionID uuid.UUID) error
}

type subscriptionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
  return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) Create(ctx context.Context, tx *gorm.DB, sub *types.Subscription) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if sub.ID == uuid.Nil {
    sub.ID = uuid.New()
  }
  return transaction.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepo) GetActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, subType string, now time.Time) (*types.Subscription, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var sub types.Subscription
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND type = ? AND is_active = ? AND expires_at > ?", userID, subType, true, now).
    Order("created_at desc").
    First(&sub).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, err
  }
  return &sub, nil
}

func (r *subscriptionRepo) Deactivate(ctx context.Context, tx *gorm.DB, subscriptionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  result := transaction.WithContext(ctx).
    Model(&types.Subscription{}).
    Where("id = ? AND is_active = ?", subscriptionID, true).
    Updates(map[string]interface{}{
      "is_active":  false,
      "updated_at": time.Now(),
    })
  if result.Error != nil {
    return result.Error
  }
  if result.RowsAffected == 0 {
    return ErrNotFound
  }
  return nil
}
