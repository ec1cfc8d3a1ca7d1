package types

import "time"

type Shrine struct {
  ID        int     `gorm:"column:id;primaryKey" json:"id"`
  Name      string  `gorm:"column:name;not null" json:"name"`
  Kana      string  `gorm:"column:kana" json:"kana"`
  Address   string  `gorm:"column:address" json:"address"`
  Latitude  float64 `gorm:"column:latitude;not null" json:"latitude"`
  Longitude float64 `gorm:"column:longitude;not null" json:"longitude"`

  CreatedAt time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Shrine) TableName() string {
  return "shrine"
}

type Deity struct {
  ID   int    `gorm:"column:id;primaryKey" json:"id"`
  Name string `gorm:"column:name;not null" json:"name"`
  Kana string `gorm:"column:kana" json:"kana"`
}

func (Deity) TableName() string {
  return "deity"
}

// ShrineDeity links a shrine to every deity enshrined there. One shrine
// prayer fans out to each linked deity's ledgers.
type ShrineDeity struct {
  ShrineID int `gorm:"column:shrine_id;primaryKey" json:"shrine_id"`
  DeityID  int `gorm:"column:deity_id;primaryKey" json:"deity_id"`
}

func (ShrineDeity) TableName() string {
  return "shrine_deity"
}
