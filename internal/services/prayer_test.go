package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kmaruoka/maherama-sub000/internal/apierr"
	"github.com/kmaruoka/maherama-sub000/internal/geo"
	"github.com/kmaruoka/maherama-sub000/internal/types"
)

func TestPrayWithinRadius(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	user := env.createUser(t, 0, 0, 0)
	env.createShrine(t, 1, 35.6586, 139.7454, 10)
	ctx := context.Background()

	pos := &geo.Position{Lat: 35.6586, Lng: 139.7454}
	result, err := env.prayer.Pray(ctx, user.ID, 1, pos)
	if err != nil {
		t.Fatalf("Pray: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("Count = %d, want 1", result.Count)
	}
	if result.ExpGained != prayExpGain {
		t.Fatalf("ExpGained = %d, want %d", result.ExpGained, prayExpGain)
	}

	fresh, err := env.users.GetByID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fresh.Exp != prayExpGain {
		t.Fatalf("user exp = %d, want %d", fresh.Exp, prayExpGain)
	}

	result, err = env.prayer.Pray(ctx, user.ID, 1, pos)
	if err != nil {
		t.Fatalf("second Pray: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("Count after second pray = %d, want 2", result.Count)
	}
}

func TestPrayOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	user := env.createUser(t, 0, 0, 0)
	env.createShrine(t, 1, 35.6586, 139.7454)
	ctx := context.Background()

	// Kyoto is several hundred km from the shrine, far beyond 100m.
	pos := &geo.Position{Lat: 35.0116, Lng: 135.7681}
	_, err := env.prayer.Pray(ctx, user.ID, 1, pos)
	if !apierr.IsCode(err, apierr.CodeOutOfRange) {
		t.Fatalf("err = %v, want code %s", err, apierr.CodeOutOfRange)
	}

	// A rejected prayer must not touch the ledgers or grant exp.
	counts, err2 := env.statsSvc.PrayerCounts(ctx, types.StatKindShrine, 1, user.ID)
	if err2 != nil {
		t.Fatalf("PrayerCounts: %v", err2)
	}
	if counts[types.StatPeriodAll] != 0 {
		t.Fatalf("all-time count = %d after rejected pray, want 0", counts[types.StatPeriodAll])
	}
	fresh, err2 := env.users.GetByID(ctx, nil, user.ID)
	if err2 != nil {
		t.Fatalf("GetByID: %v", err2)
	}
	if fresh.Exp != 0 {
		t.Fatalf("user exp = %d after rejected pray, want 0", fresh.Exp)
	}
}

func TestPrayRequiresPosition(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	user := env.createUser(t, 0, 0, 0)
	env.createShrine(t, 1, 35.6586, 139.7454)

	_, err := env.prayer.Pray(context.Background(), user.ID, 1, nil)
	if !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("err = %v, want code %s", err, apierr.CodeInvalidInput)
	}
}

func TestPrayUnknownShrine(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	user := env.createUser(t, 0, 0, 0)

	pos := &geo.Position{Lat: 35.0, Lng: 135.0}
	_, err := env.prayer.Pray(context.Background(), user.ID, 99, pos)
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("err = %v, want code %s", err, apierr.CodeNotFound)
	}
}

func TestRemotePrayZeroQuota(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	// Level 0 has worship_count 0 and the user holds no boost.
	user := env.createUser(t, 0, 0, 0)
	env.createShrine(t, 1, 35.6586, 139.7454)

	_, err := env.prayer.RemotePray(context.Background(), user.ID, 1)
	if !apierr.IsCode(err, apierr.CodeRateLimitExceeded) {
		t.Fatalf("err = %v, want code %s", err, apierr.CodeRateLimitExceeded)
	}
	if !strings.Contains(err.Error(), "0回") {
		t.Fatalf("err message %q does not mention the 0回 quota", err.Error())
	}
}

func TestRemotePrayConsumesDailyQuota(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	// Level 2 grants worship_count 1.
	user := env.createUser(t, 2, 120, 0)
	env.createShrine(t, 1, 35.6586, 139.7454, 10)
	ctx := context.Background()

	result, err := env.prayer.RemotePray(ctx, user.ID, 1)
	if err != nil {
		t.Fatalf("RemotePray: %v", err)
	}
	if result.ExpGained != remotePrayExpGain {
		t.Fatalf("ExpGained = %d, want %d", result.ExpGained, remotePrayExpGain)
	}
	if result.Count != 1 {
		t.Fatalf("Count = %d, want 1", result.Count)
	}

	_, err = env.prayer.RemotePray(ctx, user.ID, 1)
	if !apierr.IsCode(err, apierr.CodeRateLimitExceeded) {
		t.Fatalf("second RemotePray err = %v, want code %s", err, apierr.CodeRateLimitExceeded)
	}
	if !strings.Contains(err.Error(), "1回") {
		t.Fatalf("err message %q does not mention the 1回 quota", err.Error())
	}

	// Remote prayers never write deity ledgers.
	deityCounts, err := env.statsSvc.PrayerCounts(ctx, types.StatKindDeity, 10, user.ID)
	if err != nil {
		t.Fatalf("PrayerCounts: %v", err)
	}
	if deityCounts[types.StatPeriodAll] != 0 {
		t.Fatalf("deity all-time count = %d, want 0", deityCounts[types.StatPeriodAll])
	}
}

func TestRemotePrayBoostRaisesLimit(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	user := env.createUser(t, 0, 0, 0)
	env.createShrine(t, 1, 35.6586, 139.7454)
	env.createSubscription(t, user.ID, types.SubscriptionTypeWorshipBoost, time.Now().Add(24*time.Hour), true)
	ctx := context.Background()

	// Base 0 plus the boost gives one remote prayer today.
	if _, err := env.prayer.RemotePray(ctx, user.ID, 1); err != nil {
		t.Fatalf("RemotePray with boost: %v", err)
	}
	_, err := env.prayer.RemotePray(ctx, user.ID, 1)
	if !apierr.IsCode(err, apierr.CodeRateLimitExceeded) {
		t.Fatalf("err = %v, want code %s", err, apierr.CodeRateLimitExceeded)
	}
}

func TestRemotePrayQuotaResetsAtMidnight(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())
	// Level 2 grants worship_count 1.
	user := env.createUser(t, 2, 120, 0)
	env.createShrine(t, 1, 35.6586, 139.7454)
	ctx := context.Background()

	qs := env.quota.(*quotaService)
	lateEvening := time.Date(2026, 4, 15, 23, 50, 0, 0, time.Local)
	qs.now = func() time.Time { return lateEvening }

	if _, err := env.prayer.RemotePray(ctx, user.ID, 1); err != nil {
		t.Fatalf("RemotePray before midnight: %v", err)
	}
	_, err := env.prayer.RemotePray(ctx, user.ID, 1)
	if !apierr.IsCode(err, apierr.CodeRateLimitExceeded) {
		t.Fatalf("err = %v, want code %s", err, apierr.CodeRateLimitExceeded)
	}

	// The day rolls over and yesterday's prayer no longer counts.
	nextMorning := time.Date(2026, 4, 16, 0, 5, 0, 0, time.Local)
	qs.now = func() time.Time { return nextMorning }
	if _, err := env.prayer.RemotePray(ctx, user.ID, 1); err != nil {
		t.Fatalf("RemotePray after midnight: %v", err)
	}
}
