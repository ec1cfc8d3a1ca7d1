package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmaruoka/maherama-sub000/internal/apierr"
	"github.com/kmaruoka/maherama-sub000/internal/geo"
	"github.com/kmaruoka/maherama-sub000/internal/logger"
	"github.com/kmaruoka/maherama-sub000/internal/repos"
	"github.com/kmaruoka/maherama-sub000/internal/types"
)

// Exp granted per prayer action. Fixed small increments keep the
// single-step level-up rule harmless.
const (
	prayExpGain       = 10
	remotePrayExpGain = 5
)

type PrayResult struct {
	Count               int  `json:"count"`
	ExpGained           int  `json:"exp_gained"`
	LevelUp             bool `json:"level_up"`
	NewLevel            int  `json:"new_level"`
	AbilityPointsGained int  `json:"ability_points_gained"`
}

// PrayerService orchestrates the two prayer flows: geofenced physical
// prayer and quota-limited remote prayer.
type PrayerService interface {
	Pray(ctx context.Context, userID uuid.UUID, shrineID int, pos *geo.Position) (*PrayResult, error)
	RemotePray(ctx context.Context, userID uuid.UUID, shrineID int) (*PrayResult, error)
}

type prayerService struct {
	db          *gorm.DB
	log         *logger.Logger
	shrineRepo  repos.ShrineRepo
	effects     EffectService
	stats       StatsService
	progression ProgressionService
	quota       QuotaService
}

func NewPrayerService(db *gorm.DB, log *logger.Logger, shrineRepo repos.ShrineRepo, effects EffectService, stats StatsService, progression ProgressionService, quota QuotaService) PrayerService {
	return &prayerService{
		db:          db,
		log:         log.With("service", "PrayerService"),
		shrineRepo:  shrineRepo,
		effects:     effects,
		stats:       stats,
		progression: progression,
		quota:       quota,
	}
}

func (p *prayerService) getShrine(ctx context.Context, shrineID int) (*types.Shrine, error) {
	shrine, err := p.shrineRepo.GetByID(ctx, nil, shrineID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, apierr.NotFound("shrine %d not found", shrineID)
		}
		return nil, err
	}
	return shrine, nil
}

func (p *prayerService) Pray(ctx context.Context, userID uuid.UUID, shrineID int, pos *geo.Position) (*PrayResult, error) {
	shrine, err := p.getShrine(ctx, shrineID)
	if err != nil {
		return nil, err
	}

	// A missing position is an input error, never "in range".
	if pos == nil {
		return nil, apierr.InvalidInput("current position is required to pray")
	}

	radius, err := p.effects.PrayDistance(ctx, userID)
	if err != nil {
		return nil, err
	}

	check := geo.Validate(*pos, geo.Position{Lat: shrine.Latitude, Lng: shrine.Longitude}, float64(radius))
	if !check.OK {
		return nil, apierr.OutOfRange(
			fmt.Errorf("shrine %d is %.0fm away, allowed %dm", shrineID, check.DistanceMeters, radius),
			map[string]interface{}{"dist": check.DistanceMeters, "radius": radius},
		)
	}

	if err := p.stats.RecordShrinePrayer(ctx, shrineID, userID); err != nil {
		return nil, err
	}

	return p.finish(ctx, userID, shrineID, prayExpGain)
}

func (p *prayerService) RemotePray(ctx context.Context, userID uuid.UUID, shrineID int) (*PrayResult, error) {
	if _, err := p.getShrine(ctx, shrineID); err != nil {
		return nil, err
	}

	limit, err := p.effects.WorshipLimit(ctx, userID)
	if err != nil {
		return nil, err
	}
	used, err := p.quota.RemoteWorshipsToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	if used >= limit {
		return nil, apierr.RateLimitExceeded("遥拝は1日に%d回までです", limit)
	}

	if err := p.quota.Record(ctx, shrineID, userID); err != nil {
		return nil, err
	}
	if err := p.stats.RecordRemotePrayer(ctx, shrineID, userID); err != nil {
		return nil, err
	}

	return p.finish(ctx, userID, shrineID, remotePrayExpGain)
}

func (p *prayerService) finish(ctx context.Context, userID uuid.UUID, shrineID, expGain int) (*PrayResult, error) {
	grant, err := p.progression.GrantExperience(ctx, userID, expGain)
	if err != nil {
		return nil, err
	}

	counts, err := p.stats.PrayerCounts(ctx, types.StatKindShrine, shrineID, userID)
	if err != nil {
		return nil, err
	}

	return &PrayResult{
		Count:               counts[types.StatPeriodAll],
		ExpGained:           expGain,
		LevelUp:             grant.LeveledUp,
		NewLevel:            grant.NewLevel,
		AbilityPointsGained: grant.AbilityPointsGained,
	}, nil
}
