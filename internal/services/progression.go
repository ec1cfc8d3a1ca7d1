package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmaruoka/maherama-sub000/internal/apierr"
	"github.com/kmaruoka/maherama-sub000/internal/logger"
	"github.com/kmaruoka/maherama-sub000/internal/repos"
)

type GrantResult struct {
	NewExp              int  `json:"new_exp"`
	NewLevel            int  `json:"new_level"`
	LeveledUp           bool `json:"leveled_up"`
	AbilityPointsGained int  `json:"ability_points_gained"`
}

// ProgressionService owns the exp/level/ability-point columns of the user
// row. A grant is one row-locked transaction; level-up advances at most
// one tier per grant (a multi-tier jump resolves on the next grant).
type ProgressionService interface {
	GrantExperience(ctx context.Context, userID uuid.UUID, amount int) (*GrantResult, error)
}

type progressionService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	tierRepo repos.LevelTierRepo
	effects  EffectService
}

func NewProgressionService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, tierRepo repos.LevelTierRepo, effects EffectService) ProgressionService {
	return &progressionService{
		db:       db,
		log:      log.With("service", "ProgressionService"),
		userRepo: userRepo,
		tierRepo: tierRepo,
		effects:  effects,
	}
}

func (ps *progressionService) GrantExperience(ctx context.Context, userID uuid.UUID, amount int) (*GrantResult, error) {
	var result GrantResult

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := ps.userRepo.GetByIDForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return apierr.NotFound("user %s not found", userID)
			}
			return err
		}

		if _, err := ps.tierRepo.GetByLevel(ctx, tx, user.Level); err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				ps.log.Error("level tier missing during grant", "user_id", userID, "level", user.Level)
				return apierr.Configuration("level tier %d missing", user.Level)
			}
			return err
		}

		newExp := user.Exp + amount
		newLevel := user.Level
		pointsGained := 0

		nextTier, err := ps.tierRepo.GetByLevel(ctx, tx, user.Level+1)
		switch {
		case err == nil:
			if newExp >= nextTier.RequiredExp {
				newLevel = nextTier.Level
				pointsGained = 1
			}
		case errors.Is(err, repos.ErrNotFound):
			// Max configured level; exp keeps accumulating.
		default:
			return err
		}

		if err := ps.userRepo.UpdateProgression(ctx, tx, userID, newExp, newLevel, user.AbilityPoints+pointsGained); err != nil {
			return err
		}

		result = GrantResult{
			NewExp:              newExp,
			NewLevel:            newLevel,
			LeveledUp:           newLevel > user.Level,
			AbilityPointsGained: pointsGained,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.LeveledUp {
		ps.log.Info("user leveled up", "user_id", userID, "level", result.NewLevel)
		// Pray radius and worship quota depend on the tier.
		ps.effects.Invalidate(ctx, userID)
	}
	return &result, nil
}
