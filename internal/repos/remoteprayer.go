package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/types"
)

type RemotePrayerRepo interface {
  Append(ctx context.Context, tx *gorm.DB, shrineID int, userID uuid.UUID, occurredAt time.Time) error
  // CountBetween counts the user's remote prayers with occurred_at in
  // [from, to).
  CountBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error)
}

type remotePrayerRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRemotePrayerRepo(db *gorm.DB, baseLog *logger.Logger) RemotePrayerRepo {
  return &remotePrayerRepo{db: db, log: baseLog.With("repo", "RemotePrayerRepo")}
}

func (r *remotePrayerRepo) Append(ctx context.Context, tx *gorm.DB, shrineID int, userID uuid.UUID, occurredAt time.Time) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  event := types.RemotePrayerEvent{
    ID:         uuid.New(),
    ShrineID:   shrineID,
    UserID:     userID,
    OccurredAt: occurredAt,
  }
  return transaction.WithContext(ctx).Create(&event).Error
}

func (r *remotePrayerRepo) CountBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.RemotePrayerEvent{}).
    Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, from, to).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
