package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmaruoka/maherama-sub000/internal/logger"
	"github.com/kmaruoka/maherama-sub000/internal/repos"
)

// QuotaService counts remote prayers inside the server-local calendar
// day. No per-user timezone support.
type QuotaService interface {
	RemoteWorshipsToday(ctx context.Context, userID uuid.UUID) (int, error)
	// Record stamps the event with the service clock so counting and
	// recording share one notion of "today".
	Record(ctx context.Context, shrineID int, userID uuid.UUID) error
}

type quotaService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.RemotePrayerRepo
	// now is swappable for tests.
	now func() time.Time
}

func NewQuotaService(db *gorm.DB, log *logger.Logger, repo repos.RemotePrayerRepo) QuotaService {
	return &quotaService{
		db:   db,
		log:  log.With("service", "QuotaService"),
		repo: repo,
		now:  time.Now,
	}
}

// dayWindow returns [local midnight today, local midnight tomorrow).
func dayWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 0, 1)
}

func (qs *quotaService) RemoteWorshipsToday(ctx context.Context, userID uuid.UUID) (int, error) {
	from, to := dayWindow(qs.now())
	count, err := qs.repo.CountBetween(ctx, nil, userID, from, to)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (qs *quotaService) Record(ctx context.Context, shrineID int, userID uuid.UUID) error {
	return qs.repo.Append(ctx, nil, shrineID, userID, qs.now())
}
