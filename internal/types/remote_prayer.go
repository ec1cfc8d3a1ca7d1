package types

import (
  "time"

  "github.com/google/uuid"
)

// RemotePrayerEvent is append-only. The quota tracker counts rows whose
// OccurredAt falls inside the server-local calendar day.
type RemotePrayerEvent struct {
  ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  ShrineID   int       `gorm:"column:shrine_id;not null;index" json:"shrine_id"`
  UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_remote_prayer_user_occurred,priority:1" json:"user_id"`
  OccurredAt time.Time `gorm:"column:occurred_at;not null;index:idx_remote_prayer_user_occurred,priority:2" json:"occurred_at"`
}

func (RemotePrayerEvent) TableName() string {
  return "remote_prayer_event"
}
