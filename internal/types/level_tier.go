package types

// LevelTier is static reference data. Rows must exist contiguously from
// level 0 upward; RequiredExp is the total exp needed to reach the level.
type LevelTier struct {
  Level        int `gorm:"column:level;primaryKey" json:"level"`
  RequiredExp  int `gorm:"column:required_exp;not null" json:"required_exp"`
  PrayDistance int `gorm:"column:pray_distance;not null" json:"pray_distance"`
  WorshipCount int `gorm:"column:worship_count;not null" json:"worship_count"`
}

func (LevelTier) TableName() string {
  return "level_tier"
}
