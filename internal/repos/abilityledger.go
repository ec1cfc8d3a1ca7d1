package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/types"
)

// AbilityLedgerRepo writes the append-only audit log. No update or delete
// methods on purpose.
type AbilityLedgerRepo interface {
  Append(ctx context.Context, tx *gorm.DB, userID uuid.UUID, abilityID, pointsSpent int) error
  AppendBatch(ctx context.Context, tx *gorm.DB, entries []types.AbilityLedgerEntry) error
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.AbilityLedgerEntry, error)
}

type abilityLedgerRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAbilityLedgerRepo(db *gorm.DB, baseLog *logger.Logger) AbilityLedgerRepo {
  return &abilityLedgerRepo{db: db, log: baseLog.With("repo", "AbilityLedgerRepo")}
}

func (r *abilityLedgerRepo) Append(ctx context.Context, tx *gorm.DB, userID uuid.UUID, abilityID, pointsSpent int) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  entry := types.AbilityLedgerEntry{
    ID:          uuid.New(),
    UserID:      userID,
    AbilityID:   abilityID,
    PointsSpent: pointsSpent,
    CreatedAt:   time.Now(),
  }
  return transaction.WithContext(ctx).Create(&entry).Error
}

func (r *abilityLedgerRepo) AppendBatch(ctx context.Context, tx *gorm.DB, entries []types.AbilityLedgerEntry) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(entries) == 0 {
    return nil
  }
  for i := range entries {
    if entries[i].ID == uuid.Nil {
      entries[i].ID = uuid.New()
    }
    if entries[i].CreatedAt.IsZero() {
      entries[i].CreatedAt = time.Now()
    }
  }
  return transaction.WithContext(ctx).Create(&entries).Error
}

func (r *abilityLedgerRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.AbilityLedgerEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var entries []types.AbilityLedgerEntry
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at asc").
    Find(&entries).Error; err != nil {
    return nil, err
  }
  return entries, nil
}
