package services

import (
	"context"
	"testing"

	"github.com/kmaruoka/maherama-sub000/internal/types"
)

func TestRecordShrinePrayerIncrementsEveryLedger(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	user := env.createUser(t, 0, 0, 0)
	env.createShrine(t, 1, 35.0, 135.0, 10, 11)
	ctx := context.Background()

	const prays = 3
	for i := 0; i < prays; i++ {
		if err := env.statsSvc.RecordShrinePrayer(ctx, 1, user.ID); err != nil {
			t.Fatalf("RecordShrinePrayer #%d: %v", i+1, err)
		}
	}

	shrineCounts, err := env.statsSvc.PrayerCounts(ctx, types.StatKindShrine, 1, user.ID)
	if err != nil {
		t.Fatalf("shrine PrayerCounts: %v", err)
	}
	for _, period := range types.StatPeriods {
		if shrineCounts[period] != prays {
			t.Fatalf("shrine %s count = %d, want %d", period, shrineCounts[period], prays)
		}
	}

	for _, deityID := range []int{10, 11} {
		deityCounts, err := env.statsSvc.PrayerCounts(ctx, types.StatKindDeity, deityID, user.ID)
		if err != nil {
			t.Fatalf("deity PrayerCounts: %v", err)
		}
		for _, period := range types.StatPeriods {
			if deityCounts[period] != prays {
				t.Fatalf("deity %d %s count = %d, want %d", deityID, period, deityCounts[period], prays)
			}
		}
	}
}

func TestRecordRemotePrayerSkipsDeityLedgers(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	user := env.createUser(t, 0, 0, 0)
	env.createShrine(t, 1, 35.0, 135.0, 10)
	ctx := context.Background()

	if err := env.statsSvc.RecordRemotePrayer(ctx, 1, user.ID); err != nil {
		t.Fatalf("RecordRemotePrayer: %v", err)
	}

	shrineCounts, err := env.statsSvc.PrayerCounts(ctx, types.StatKindShrine, 1, user.ID)
	if err != nil {
		t.Fatalf("shrine PrayerCounts: %v", err)
	}
	if shrineCounts[types.StatPeriodAll] != 1 {
		t.Fatalf("shrine all-time count = %d, want 1", shrineCounts[types.StatPeriodAll])
	}

	deityCounts, err := env.statsSvc.PrayerCounts(ctx, types.StatKindDeity, 10, user.ID)
	if err != nil {
		t.Fatalf("deity PrayerCounts: %v", err)
	}
	for _, period := range types.StatPeriods {
		if deityCounts[period] != 0 {
			t.Fatalf("deity %s count = %d, want 0 for remote prayer", period, deityCounts[period])
		}
	}
}

func TestPrayerStatRowsStayUnique(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	user := env.createUser(t, 0, 0, 0)
	env.createShrine(t, 1, 35.0, 135.0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := env.statsSvc.RecordShrinePrayer(ctx, 1, user.ID); err != nil {
			t.Fatalf("RecordShrinePrayer: %v", err)
		}
	}

	var rows int64
	if err := env.db.Table(types.StatTableName(types.StatKindShrine, types.StatPeriodAll)).
		Where("target_id = ? AND user_id = ?", 1, user.ID).
		Count(&rows).Error; err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("found %d rows for one (target,user) pair, want 1", rows)
	}
}
