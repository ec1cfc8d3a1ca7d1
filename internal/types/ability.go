package types

import (
  "time"

  "github.com/google/uuid"
)

const (
  EffectTypeRange   = "range"
  EffectTypeWorship = "worship"
  EffectTypeOther   = "other"
)

// AbilityDefinition rows form a prerequisite tree; PrerequisiteID must
// never introduce a cycle.
type AbilityDefinition struct {
  ID             int    `gorm:"column:id;primaryKey" json:"id"`
  Name           string `gorm:"column:name;not null" json:"name"`
  Description    string `gorm:"column:description" json:"description"`
  Cost           int    `gorm:"column:cost;not null" json:"cost"`
  EffectType     string `gorm:"column:effect_type;not null" json:"effect_type"`
  EffectValue    int    `gorm:"column:effect_value;not null;default:0" json:"effect_value"`
  PrerequisiteID *int   `gorm:"column:prerequisite_ability_id" json:"prerequisite_ability_id,omitempty"`
}

func (AbilityDefinition) TableName() string {
  return "ability_definition"
}

type UserAbility struct {
  ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_user_ability,unique,priority:1" json:"user_id"`
  AbilityID  int       `gorm:"column:ability_id;not null;index:idx_user_ability,unique,priority:2" json:"ability_id"`
  AcquiredAt time.Time `gorm:"column:acquired_at;not null" json:"acquired_at"`
}

func (UserAbility) TableName() string {
  return "user_ability"
}

// AbilityLedgerEntry is an append-only audit log: positive PointsSpent on
// purchase, negative on refund. Never mutated or deleted.
type AbilityLedgerEntry struct {
  ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
  AbilityID   int       `gorm:"column:ability_id;not null" json:"ability_id"`
  PointsSpent int       `gorm:"column:points_spent;not null" json:"points_spent"`
  CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (AbilityLedgerEntry) TableName() string {
  return "ability_ledger_entry"
}
