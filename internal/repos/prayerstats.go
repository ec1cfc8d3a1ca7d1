package repos

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/types"
)

type PrayerStatsRepo interface {
  // Increment is an atomic insert-or-increment against one period table.
  // The unique (target_id, user_id) index turns a concurrent first
  // prayer into an increment instead of a duplicate row.
  Increment(ctx context.Context, tx *gorm.DB, kind types.StatKind, period types.StatPeriod, targetID int, userID uuid.UUID) error
  Get(ctx context.Context, tx *gorm.DB, kind types.StatKind, period types.StatPeriod, targetID int, userID uuid.UUID) (*types.PrayerStat, error)
}

type prayerStatsRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPrayerStatsRepo(db *gorm.DB, baseLog *logger.Logger) PrayerStatsRepo {
  return &prayerStatsRepo{db: db, log: baseLog.With("repo", "PrayerStatsRepo")}
}

func (r *prayerStatsRepo) Increment(ctx context.Context, tx *gorm.DB, kind types.StatKind, period types.StatPeriod, targetID int, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  now := time.Now()
  row := types.PrayerStat{
    TargetID:  targetID,
    UserID:    userID,
    Count:     1,
    Rank:      1,
    CreatedAt: now,
    UpdatedAt: now,
  }
  return transaction.WithContext(ctx).
    Table(types.StatTableName(kind, period)).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "target_id"}, {Name: "user_id"}},
      DoUpdates: clause.Assignments(map[string]interface{}{
        "count":      gorm.Expr("count + 1"),
        "updated_at": now,
      }),
    }).
    Create(&row).Error
}

func (r *prayerStatsRepo) Get(ctx context.Context, tx *gorm.DB, kind types.StatKind, period types.StatPeriod, targetID int, userID uuid.UUID) (*types.PrayerStat, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.PrayerStat
  if err := transaction.WithContext(ctx).
    Table(types.StatTableName(kind, period)).
    Where("target_id = ? AND user_id = ?", targetID, userID).
    First(&row).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, err
  }
  return &row, nil
}
