package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/kmaruoka/maherama-sub000/internal/logger"
	"github.com/kmaruoka/maherama-sub000/internal/repos"
	"github.com/kmaruoka/maherama-sub000/internal/types"
)

// StatsService maintains the four period ledgers per prayer target. Each
// table increment is its own atomic upsert; the fan-out across tables and
// deities is deliberately not one transaction, so a crash mid-way can
// leave ledgers unevenly updated. Accepted failure mode.
type StatsService interface {
	// RecordShrinePrayer increments the shrine's four ledgers and the
	// four ledgers of every deity enshrined there.
	RecordShrinePrayer(ctx context.Context, shrineID int, userID uuid.UUID) error
	// RecordRemotePrayer increments the shrine ledgers only.
	RecordRemotePrayer(ctx context.Context, shrineID int, userID uuid.UUID) error
	PrayerCounts(ctx context.Context, kind types.StatKind, targetID int, userID uuid.UUID) (map[types.StatPeriod]int, error)
}

type statsService struct {
	db         *gorm.DB
	log        *logger.Logger
	statsRepo  repos.PrayerStatsRepo
	shrineRepo repos.ShrineRepo
}

func NewStatsService(db *gorm.DB, log *logger.Logger, statsRepo repos.PrayerStatsRepo, shrineRepo repos.ShrineRepo) StatsService {
	return &statsService{
		db:         db,
		log:        log.With("service", "StatsService"),
		statsRepo:  statsRepo,
		shrineRepo: shrineRepo,
	}
}

func (ss *statsService) incrementAllPeriods(ctx context.Context, kind types.StatKind, targetID int, userID uuid.UUID) error {
	for _, period := range types.StatPeriods {
		if err := ss.statsRepo.Increment(ctx, nil, kind, period, targetID, userID); err != nil {
			return fmt.Errorf("incrementing %s: %w", types.StatTableName(kind, period), err)
		}
	}
	return nil
}

func (ss *statsService) RecordShrinePrayer(ctx context.Context, shrineID int, userID uuid.UUID) error {
	if err := ss.incrementAllPeriods(ctx, types.StatKindShrine, shrineID, userID); err != nil {
		return err
	}

	deityIDs, err := ss.shrineRepo.GetDeityIDs(ctx, nil, shrineID)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, deityID := range deityIDs {
		deityID := deityID
		g.Go(func() error {
			return ss.incrementAllPeriods(gctx, types.StatKindDeity, deityID, userID)
		})
	}
	if err := g.Wait(); err != nil {
		ss.log.Error("deity ledger fan-out failed", "shrine_id", shrineID, "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (ss *statsService) RecordRemotePrayer(ctx context.Context, shrineID int, userID uuid.UUID) error {
	return ss.incrementAllPeriods(ctx, types.StatKindShrine, shrineID, userID)
}

func (ss *statsService) PrayerCounts(ctx context.Context, kind types.StatKind, targetID int, userID uuid.UUID) (map[types.StatPeriod]int, error) {
	counts := make(map[types.StatPeriod]int, len(types.StatPeriods))
	for _, period := range types.StatPeriods {
		row, err := ss.statsRepo.Get(ctx, nil, kind, period, targetID, userID)
		switch {
		case err == nil:
			counts[period] = row.Count
		case errors.Is(err, repos.ErrNotFound):
			counts[period] = 0
		default:
			return nil, err
		}
	}
	return counts, nil
}
