package types

import (
  "time"

  "github.com/google/uuid"
)

type User struct {
  ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  Name          string    `gorm:"column:name" json:"name"`
  Level         int       `gorm:"column:level;not null;default:0" json:"level"`
  Exp           int       `gorm:"column:exp;not null;default:0" json:"exp"`
  AbilityPoints int       `gorm:"column:ability_points;not null;default:0" json:"ability_points"`
  CreatedAt     time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}
