package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

const (
  SubscriptionTypeRangeMultiplier = "range_multiplier"
  SubscriptionTypeWorshipBoost    = "worship_boost"
  SubscriptionTypeResetAbilities  = "reset_abilities"
)

// Subscription rows with ExpiresAt <= now are treated as inactive even
// when IsActive is still true (lazy expiry, no background sweep).
type Subscription struct {
  ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  UserID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  Type               string         `gorm:"column:type;not null;index" json:"type"`
  IsActive           bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
  ExpiresAt          time.Time      `gorm:"column:expires_at;not null" json:"expires_at"`
  CurrentPeriodStart time.Time      `gorm:"column:current_period_start" json:"current_period_start"`
  CurrentPeriodEnd   time.Time      `gorm:"column:current_period_end" json:"current_period_end"`
  BillingMeta        datatypes.JSON `gorm:"column:billing_meta" json:"billing_meta,omitempty"`
  CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (Subscription) TableName() string {
  return "subscription"
}
