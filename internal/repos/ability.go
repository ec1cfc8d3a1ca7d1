package repos

import (
  "context"
  "errors"

  "gorm.io/gorm"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/types"
)

type AbilityDefinitionRepo interface {
  GetByID(ctx context.Context, tx *gorm.DB, abilityID int) (*types.AbilityDefinition, error)
  GetAll(ctx context.Context, tx *gorm.DB) ([]types.AbilityDefinition, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, abilityIDs []int) ([]types.AbilityDefinition, error)
}

type abilityDefinitionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAbilityDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) AbilityDefinitionRepo {
  return &abilityDefinitionRepo{db: db, log: baseLog.With("repo", "AbilityDefinitionRepo")}
}

func (r *abilityDefinitionRepo) GetByID(ctx context.Context, tx *gorm.DB, abilityID int) (*types.AbilityDefinition, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var def types.AbilityDefinition
  if err := transaction.WithContext(ctx).
    Where("id = ?", abilityID).
    First(&def).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, err
  }
  return &def, nil
}

func (r *abilityDefinitionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.AbilityDefinition, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var defs []types.AbilityDefinition
  if err := transaction.WithContext(ctx).
    Order("id asc").
    Find(&defs).Error; err != nil {
    return nil, err
  }
  return defs, nil
}

func (r *abilityDefinitionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, abilityIDs []int) ([]types.AbilityDefinition, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var defs []types.AbilityDefinition
  if len(abilityIDs) == 0 {
    return defs, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", abilityIDs).
    Find(&defs).Error; err != nil {
    return nil, err
  }
  return defs, nil
}
