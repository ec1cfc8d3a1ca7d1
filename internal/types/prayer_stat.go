package types

import (
  "fmt"
  "time"

  "github.com/google/uuid"
)

type StatKind string

const (
  StatKindShrine StatKind = "shrine"
  StatKindDeity  StatKind = "deity"
)

type StatPeriod string

const (
  StatPeriodAll     StatPeriod = "all"
  StatPeriodYearly  StatPeriod = "yearly"
  StatPeriodMonthly StatPeriod = "monthly"
  StatPeriodWeekly  StatPeriod = "weekly"
)

// StatPeriods lists every period ledger a prayer increments, all-time first.
var StatPeriods = []StatPeriod{StatPeriodAll, StatPeriodYearly, StatPeriodMonthly, StatPeriodWeekly}

// PrayerStat backs eight tables: one per (kind, period). Rows are unique
// per (target_id, user_id); Rank is a placeholder recomputed by the
// external ranking job.
type PrayerStat struct {
  TargetID  int       `gorm:"column:target_id;not null" json:"target_id"`
  UserID    uuid.UUID `gorm:"type:uuid;column:user_id;not null" json:"user_id"`
  Count     int       `gorm:"column:count;not null;default:0" json:"count"`
  Rank      int       `gorm:"column:rank;not null;default:1" json:"rank"`
  CreatedAt time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// StatTableName returns the table backing a (kind, period) ledger, e.g.
// shrine_pray_stat, deity_pray_stat_weekly.
func StatTableName(kind StatKind, period StatPeriod) string {
  base := fmt.Sprintf("%s_pray_stat", kind)
  if period == StatPeriodAll {
    return base
  }
  return fmt.Sprintf("%s_%s", base, period)
}
