package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kmaruoka/maherama-sub000/internal/logger"
  "github.com/kmaruoka/maherama-sub000/internal/types"
)

type UserAbilityRepo interface {
  Create(ctx context.Context, tx *gorm.DB, userID uuid.UUID, abilityID int) error
  Exists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, abilityID int) (bool, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.UserAbility, error)
  DeleteAllByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
  // SumEffectValues totals effect_value over the user's owned abilities
  // of the given effect type. Ownership is binary; values are flat.
  SumEffectValues(ctx context.Context, tx *gorm.DB, userID uuid.UUID, effectType string) (int, error)
}

type userAbilityRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserAbilityRepo(db *gorm.DB, baseLog *logger.Logger) UserAbilityRepo {
  return &userAbilityRepo{db: db, log: baseLog.With("repo", "UserAbilityRepo")}
}

func (r *userAbilityRepo) Create(ctx context.Context, tx *gorm.DB, userID uuid.UUID, abilityID int) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  row := types.UserAbility{
    ID:         uuid.New(),
    UserID:     userID,
    AbilityID:  abilityID,
    AcquiredAt: time.Now(),
  }
  // The unique (user_id, ability_id) index is the backstop against a
  // duplicate-purchase race; a conflicting insert fails here.
  return transaction.WithContext(ctx).Create(&row).Error
}

func (r *userAbilityRepo) Exists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, abilityID int) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.UserAbility{}).
    Where("user_id = ? AND ability_id = ?", userID, abilityID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *userAbilityRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.UserAbility, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var rows []types.UserAbility
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("acquired_at asc").
    Find(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *userAbilityRepo) DeleteAllByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Delete(&types.UserAbility{}).Error
}

func (r *userAbilityRepo) SumEffectValues(ctx context.Context, tx *gorm.DB, userID uuid.UUID, effectType string) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var total *int
  if err := transaction.WithContext(ctx).
    Model(&types.UserAbility{}).
    Select("SUM(ability_definition.effect_value)").
    Joins("JOIN ability_definition ON ability_definition.id = user_ability.ability_id").
    Where("user_ability.user_id = ? AND ability_definition.effect_type = ?", userID, effectType).
    Scan(&total).Error; err != nil {
    return 0, err
  }
  if total == nil {
    return 0, nil
  }
  return *total, nil
}
