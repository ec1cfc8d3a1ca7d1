package repos

import (
  "context"
  "errors"

  "gorm.io/gorm"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/types"
)

type LevelTierRepo interface {
  GetByLevel(ctx context.Context, tx *gorm.DB, level int) (*types.LevelTier, error)
  GetAll(ctx context.Context, tx *gorm.DB) ([]types.LevelTier, error)
}

type levelTierRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLevelTierRepo(db *gorm.DB, baseLog *logger.Logger) LevelTierRepo {
  return &levelTierRepo{db: db, log: baseLog.With("repo", "LevelTierRepo")}
}

func (r *levelTierRepo) GetByLevel(ctx context.Context, tx *gorm.DB, level int) (*types.LevelTier, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var tier types.LevelTier
  if err := transaction.WithContext(ctx).
    Where("level = ?", level).
    First(&tier).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, err
  }
  return &tier, nil
}

func (r *levelTierRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.LevelTier, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var tiers []types.LevelTier
  if err := transaction.WithContext(ctx).
    Order("level asc").
    Find(&tiers).Error; err != nil {
    return nil, err
  }
  return tiers, nil
}
