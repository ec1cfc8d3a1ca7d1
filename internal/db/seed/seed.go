package seed

import (
	"fmt"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gopkg.in/yaml.v3"

	"github.com/kmaruoka/maherama-sub000/internal/types"
)

// Seed holds the static reference data the progression core depends on.
// Level tiers must be contiguous from level 0 and ability prerequisites
// must be acyclic; Validate enforces both before anything is written.
type Seed struct {
	LevelTiers []LevelTierSeed `yaml:"level_tiers"`
	Abilities  []AbilitySeed   `yaml:"abilities"`
	Deities    []DeitySeed     `yaml:"deities"`
	Shrines    []ShrineSeed    `yaml:"shrines"`
}

type LevelTierSeed struct {
	Level        int `yaml:"level"`
	RequiredExp  int `yaml:"required_exp"`
	PrayDistance int `yaml:"pray_distance"`
	WorshipCount int `yaml:"worship_count"`
}

type AbilitySeed struct {
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Cost         int    `yaml:"cost"`
	EffectType   string `yaml:"effect_type"`
	EffectValue  int    `yaml:"effect_value"`
	Prerequisite *int   `yaml:"prerequisite"`
}

type DeitySeed struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	Kana string `yaml:"kana"`
}

type ShrineSeed struct {
	ID        int     `yaml:"id"`
	Name      string  `yaml:"name"`
	Kana      string  `yaml:"kana"`
	Address   string  `yaml:"address"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Deities   []int   `yaml:"deities"`
}

func Load(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var s Seed
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Seed) Validate() error {
	if err := s.validateTiers(); err != nil {
		return err
	}
	return s.validateAbilities()
}

func (s *Seed) validateTiers() error {
	if len(s.LevelTiers) == 0 {
		return fmt.Errorf("seed has no level tiers")
	}
	seen := make(map[int]LevelTierSeed, len(s.LevelTiers))
	for _, t := range s.LevelTiers {
		if _, dup := seen[t.Level]; dup {
			return fmt.Errorf("duplicate level tier %d", t.Level)
		}
		seen[t.Level] = t
	}
	prevExp := -1
	for level := 0; level < len(s.LevelTiers); level++ {
		t, ok := seen[level]
		if !ok {
			return fmt.Errorf("level tiers must be contiguous from 0: missing level %d", level)
		}
		if t.RequiredExp <= prevExp && level > 0 {
			return fmt.Errorf("level %d required_exp %d does not exceed level %d", level, t.RequiredExp, level-1)
		}
		prevExp = t.RequiredExp
	}
	return nil
}

func (s *Seed) validateAbilities() error {
	byID := make(map[int]AbilitySeed, len(s.Abilities))
	for _, a := range s.Abilities {
		if _, dup := byID[a.ID]; dup {
			return fmt.Errorf("duplicate ability id %d", a.ID)
		}
		switch a.EffectType {
		case types.EffectTypeRange, types.EffectTypeWorship, types.EffectTypeOther:
		default:
			return fmt.Errorf("ability %d has unknown effect_type %q", a.ID, a.EffectType)
		}
		byID[a.ID] = a
	}
	for _, a := range s.Abilities {
		if a.Prerequisite == nil {
			continue
		}
		if _, ok := byID[*a.Prerequisite]; !ok {
			return fmt.Errorf("ability %d requires unknown ability %d", a.ID, *a.Prerequisite)
		}
		// Walk the prerequisite chain; revisiting the start means a cycle.
		seen := map[int]bool{a.ID: true}
		cur := a.Prerequisite
		for cur != nil {
			if seen[*cur] {
				return fmt.Errorf("ability prerequisite cycle through %d", a.ID)
			}
			seen[*cur] = true
			next := byID[*cur].Prerequisite
			cur = next
		}
	}
	return nil
}

// Apply upserts the reference data. Existing rows are updated in place so
// seeds can be re-applied on deploy.
func (s *Seed) Apply(db *gorm.DB) error {
	tiers := make([]types.LevelTier, 0, len(s.LevelTiers))
	for _, t := range s.LevelTiers {
		tiers = append(tiers, types.LevelTier{
			Level:        t.Level,
			RequiredExp:  t.RequiredExp,
			PrayDistance: t.PrayDistance,
			WorshipCount: t.WorshipCount,
		})
	}
	if len(tiers) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "level"}},
			UpdateAll: true,
		}).Create(&tiers).Error; err != nil {
			return fmt.Errorf("seeding level tiers: %w", err)
		}
	}

	abilities := make([]types.AbilityDefinition, 0, len(s.Abilities))
	for _, a := range s.Abilities {
		abilities = append(abilities, types.AbilityDefinition{
			ID:             a.ID,
			Name:           a.Name,
			Description:    a.Description,
			Cost:           a.Cost,
			EffectType:     a.EffectType,
			EffectValue:    a.EffectValue,
			PrerequisiteID: a.Prerequisite,
		})
	}
	if len(abilities) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&abilities).Error; err != nil {
			return fmt.Errorf("seeding abilities: %w", err)
		}
	}

	deities := make([]types.Deity, 0, len(s.Deities))
	for _, d := range s.Deities {
		deities = append(deities, types.Deity{ID: d.ID, Name: d.Name, Kana: d.Kana})
	}
	if len(deities) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&deities).Error; err != nil {
			return fmt.Errorf("seeding deities: %w", err)
		}
	}

	for _, sh := range s.Shrines {
		shrine := types.Shrine{
			ID:        sh.ID,
			Name:      sh.Name,
			Kana:      sh.Kana,
			Address:   sh.Address,
			Latitude:  sh.Latitude,
			Longitude: sh.Longitude,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&shrine).Error; err != nil {
			return fmt.Errorf("seeding shrine %d: %w", sh.ID, err)
		}
		for _, deityID := range sh.Deities {
			link := types.ShrineDeity{ShrineID: sh.ID, DeityID: deityID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return fmt.Errorf("linking shrine %d to deity %d: %w", sh.ID, deityID, err)
			}
		}
	}
	return nil
}
