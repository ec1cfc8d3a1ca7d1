package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmaruoka/maherama-sub000/internal/apierr"
	"github.com/kmaruoka/maherama-sub000/internal/logger"
	"github.com/kmaruoka/maherama-sub000/internal/repos"
	"github.com/kmaruoka/maherama-sub000/internal/types"
)

type ShrineDetail struct {
	Shrine  types.Shrine             `json:"shrine"`
	Deities []types.Deity            `json:"deities"`
	Counts  map[types.StatPeriod]int `json:"counts"`
}

type ShrineService interface {
	List(ctx context.Context) ([]types.Shrine, error)
	// Get returns the shrine, its enshrined deities and the caller's
	// four-period prayer counts at it.
	Get(ctx context.Context, shrineID int, userID uuid.UUID) (*ShrineDetail, error)
}

type shrineService struct {
	db         *gorm.DB
	log        *logger.Logger
	shrineRepo repos.ShrineRepo
	stats      StatsService
}

func NewShrineService(db *gorm.DB, log *logger.Logger, shrineRepo repos.ShrineRepo, stats StatsService) ShrineService {
	return &shrineService{
		db:         db,
		log:        log.With("service", "ShrineService"),
		shrineRepo: shrineRepo,
		stats:      stats,
	}
}

func (ss *shrineService) List(ctx context.Context) ([]types.Shrine, error) {
	return ss.shrineRepo.List(ctx, nil)
}

func (ss *shrineService) Get(ctx context.Context, shrineID int, userID uuid.UUID) (*ShrineDetail, error) {
	shrine, err := ss.shrineRepo.GetByID(ctx, nil, shrineID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, apierr.NotFound("shrine %d not found", shrineID)
		}
		return nil, err
	}

	deities, err := ss.shrineRepo.GetDeities(ctx, nil, shrineID)
	if err != nil {
		return nil, err
	}
	counts, err := ss.stats.PrayerCounts(ctx, types.StatKindShrine, shrineID, userID)
	if err != nil {
		return nil, err
	}

	return &ShrineDetail{Shrine: *shrine, Deities: deities, Counts: counts}, nil
}
