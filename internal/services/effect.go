package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmaruoka/maherama-sub000/internal/apierr"
	"github.com/kmaruoka/maherama-sub000/internal/cache"
	"github.com/kmaruoka/maherama-sub000/internal/logger"
	"github.com/kmaruoka/maherama-sub000/internal/repos"
	"github.com/kmaruoka/maherama-sub000/internal/types"
)

// EffectService derives the gameplay numbers every prayer decision needs:
// allowed pray radius and daily worship quota. Both are pure functions of
// level tier, owned abilities and active subscriptions; results may be
// cached short-term.
type EffectService interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*cache.EffectStats, error)
	PrayDistance(ctx context.Context, userID uuid.UUID) (int, error)
	WorshipLimit(ctx context.Context, userID uuid.UUID) (int, error)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// EffectCacheStore is the cache surface the resolver needs; satisfied
// by cache.EffectCache.
type EffectCacheStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*cache.EffectStats, bool)
	Set(ctx context.Context, userID uuid.UUID, stats cache.EffectStats)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type effectService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	tierRepo    repos.LevelTierRepo
	abilityRepo repos.UserAbilityRepo
	subRepo     repos.SubscriptionRepo
	cache       EffectCacheStore
}

func NewEffectService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, tierRepo repos.LevelTierRepo, abilityRepo repos.UserAbilityRepo, subRepo repos.SubscriptionRepo, effectCache EffectCacheStore) EffectService {
	return &effectService{
		db:          db,
		log:         log.With("service", "EffectService"),
		userRepo:    userRepo,
		tierRepo:    tierRepo,
		abilityRepo: abilityRepo,
		subRepo:     subRepo,
		cache:       effectCache,
	}
}

func (es *effectService) Resolve(ctx context.Context, userID uuid.UUID) (*cache.EffectStats, error) {
	if cached, ok := es.cache.Get(ctx, userID); ok {
		return cached, nil
	}

	stats, err := es.resolveFresh(ctx, userID)
	if err != nil {
		return nil, err
	}
	es.cache.Set(ctx, userID, *stats)
	return stats, nil
}

func (es *effectService) resolveFresh(ctx context.Context, userID uuid.UUID) (*cache.EffectStats, error) {
	user, err := es.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, apierr.NotFound("user %s not found", userID)
		}
		return nil, err
	}

	tier, err := es.tierRepo.GetByLevel(ctx, nil, user.Level)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			es.log.Error("level tier missing for user level", "user_id", userID, "level", user.Level)
			return nil, apierr.Configuration("level tier %d missing", user.Level)
		}
		return nil, err
	}

	rangeBonus, err := es.abilityRepo.SumEffectValues(ctx, nil, userID, types.EffectTypeRange)
	if err != nil {
		return nil, err
	}
	worshipBonus, err := es.abilityRepo.SumEffectValues(ctx, nil, userID, types.EffectTypeWorship)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	distance := tier.PrayDistance + rangeBonus
	if _, err := es.subRepo.GetActive(ctx, nil, userID, types.SubscriptionTypeRangeMultiplier, now); err == nil {
		distance *= 2
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, err
	}

	limit := tier.WorshipCount + worshipBonus
	if _, err := es.subRepo.GetActive(ctx, nil, userID, types.SubscriptionTypeWorshipBoost, now); err == nil {
		limit++
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, err
	}

	return &cache.EffectStats{PrayDistance: distance, WorshipLimit: limit}, nil
}

func (es *effectService) PrayDistance(ctx context.Context, userID uuid.UUID) (int, error) {
	stats, err := es.Resolve(ctx, userID)
	if err != nil {
		return 0, err
	}
	return stats.PrayDistance, nil
}

func (es *effectService) WorshipLimit(ctx context.Context, userID uuid.UUID) (int, error) {
	stats, err := es.Resolve(ctx, userID)
	if err != nil {
		return 0, err
	}
	return stats.WorshipLimit, nil
}

func (es *effectService) Invalidate(ctx context.Context, userID uuid.UUID) {
	es.cache.Invalidate(ctx, userID)
}
