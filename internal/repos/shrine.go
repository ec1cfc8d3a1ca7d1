package repos

import (
  "context"
  "errors"

  "gorm.io/gorm"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/types"
)

type ShrineRepo interface {
  GetByID(ctx context.Context, tx *gorm.DB, shrineID int) (*types.Shrine, error)
  List(ctx context.Context, tx *gorm.DB) ([]types.Shrine, error)
  // GetDeityIDs returns the ids of every deity enshrined at the shrine;
  // the stats ledger fans out across them.
  GetDeityIDs(ctx context.Context, tx *gorm.DB, shrineID int) ([]int, error)
  GetDeities(ctx context.Context, tx *gorm.DB, shrineID int) ([]types.Deity, error)
}

type shrineRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewShrineRepo(db *gorm.DB, baseLog *logger.Logger) ShrineRepo {
  return &shrineRepo{db: db, log: baseLog.With("repo", "ShrineRepo")}
}

func (r *shrineRepo) GetByID(ctx context.Context, tx *gorm.DB, shrineID int) (*types.Shrine, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var shrine types.Shrine
  if err := transaction.WithContext(ctx).
    Where("id = ?", shrineID).
    First(&shrine).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, err
  }
  return &shrine, nil
}

func (r *shrineRepo) List(ctx context.Context, tx *gorm.DB) ([]types.Shrine, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var shrines []types.Shrine
  if err := transaction.WithContext(ctx).
    Order("id asc").
    Find(&shrines).Error; err != nil {
    return nil, err
  }
  return shrines, nil
}

func (r *shrineRepo) GetDeityIDs(ctx context.Context, tx *gorm.DB, shrineID int) ([]int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []int
  if err := transaction.WithContext(ctx).
    Model(&types.ShrineDeity{}).
    Where("shrine_id = ?", shrineID).
    Pluck("deity_id", &ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

func (r *shrineRepo) GetDeities(ctx context.Context, tx *gorm.DB, shrineID int) ([]types.Deity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var deities []types.Deity
  if err := transaction.WithContext(ctx).
    Joins("JOIN shrine_deity ON shrine_deity.deity_id = deity.id").
    Where("shrine_deity.shrine_id = ?", shrineID).
    Order("deity.id asc").
    Find(&deities).Error; err != nil {
    return nil, err
  }
  return deities, nil
}
