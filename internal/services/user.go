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

type LevelInfo struct {
	Level         int  `json:"level"`
	Exp           int  `json:"exp"`
	AbilityPoints int  `json:"ability_points"`
	NextLevelExp  *int `json:"next_level_exp,omitempty"`
	ExpToNext     *int `json:"exp_to_next,omitempty"`
}

// UserService exposes read-only projections of progression state.
type UserService interface {
	GetLevelInfo(ctx context.Context, userID uuid.UUID) (*LevelInfo, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	tierRepo repos.LevelTierRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, tierRepo repos.LevelTierRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		tierRepo: tierRepo,
	}
}

func (us *userService) GetLevelInfo(ctx context.Context, userID uuid.UUID) (*LevelInfo, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, apierr.NotFound("user %s not found", userID)
		}
		return nil, err
	}

	info := LevelInfo{
		Level:         user.Level,
		Exp:           user.Exp,
		AbilityPoints: user.AbilityPoints,
	}

	next, err := us.tierRepo.GetByLevel(ctx, nil, user.Level+1)
	switch {
	case err == nil:
		required := next.RequiredExp
		toNext := required - user.Exp
		if toNext < 0 {
			toNext = 0
		}
		info.NextLevelExp = &required
		info.ExpToNext = &toNext
	case errors.Is(err, repos.ErrNotFound):
		// Max configured level.
	default:
		return nil, err
	}
	return &info, nil
}
