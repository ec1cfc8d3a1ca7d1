package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kmaruoka/maherama-sub000/internal/cache"
	"github.com/kmaruoka/maherama-sub000/internal/db"
	"github.com/kmaruoka/maherama-sub000/internal/logger"
	"github.com/kmaruoka/maherama-sub000/internal/repos"
	"github.com/kmaruoka/maherama-sub000/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return gdb
}

// testEnv wires every service against one in-memory database, no redis.
type testEnv struct {
	db          *gorm.DB
	users       repos.UserRepo
	tiers       repos.LevelTierRepo
	defs        repos.AbilityDefinitionRepo
	owned       repos.UserAbilityRepo
	ledger      repos.AbilityLedgerRepo
	subs        repos.SubscriptionRepo
	shrines     repos.ShrineRepo
	stats       repos.PrayerStatsRepo
	remote      repos.RemotePrayerRepo
	effects     EffectService
	progression ProgressionService
	statsSvc    StatsService
	quota       QuotaService
	abilities   AbilityService
	prayer      PrayerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.NewNop()

	env := &testEnv{
		db:      gdb,
		users:   repos.NewUserRepo(gdb, log),
		tiers:   repos.NewLevelTierRepo(gdb, log),
		defs:    repos.NewAbilityDefinitionRepo(gdb, log),
		owned:   repos.NewUserAbilityRepo(gdb, log),
		ledger:  repos.NewAbilityLedgerRepo(gdb, log),
		subs:    repos.NewSubscriptionRepo(gdb, log),
		shrines: repos.NewShrineRepo(gdb, log),
		stats:   repos.NewPrayerStatsRepo(gdb, log),
		remote:  repos.NewRemotePrayerRepo(gdb, log),
	}

	effectCache := cache.NewEffectCache(nil, 0, log)
	env.effects = NewEffectService(gdb, log, env.users, env.tiers, env.owned, env.subs, effectCache)
	env.progression = NewProgressionService(gdb, log, env.users, env.tiers, env.effects)
	env.statsSvc = NewStatsService(gdb, log, env.stats, env.shrines)
	env.quota = NewQuotaService(gdb, log, env.remote)
	env.abilities = NewAbilityService(gdb, log, env.users, env.defs, env.owned, env.ledger, env.subs, env.effects)
	env.prayer = NewPrayerService(gdb, log, env.shrines, env.effects, env.statsSvc, env.progression, env.quota)
	return env
}

func (env *testEnv) seedTiers(t *testing.T, tiers []types.LevelTier) {
	t.Helper()
	if err := env.db.Create(&tiers).Error; err != nil {
		t.Fatalf("seeding tiers: %v", err)
	}
}

// defaultTiers covers levels 0..3 with distinct radii and quotas.
func defaultTiers() []types.LevelTier {
	return []types.LevelTier{
		{Level: 0, RequiredExp: 0, PrayDistance: 100, WorshipCount: 0},
		{Level: 1, RequiredExp: 50, PrayDistance: 100, WorshipCount: 0},
		{Level: 2, RequiredExp: 120, PrayDistance: 150, WorshipCount: 1},
		{Level: 3, RequiredExp: 220, PrayDistance: 150, WorshipCount: 1},
	}
}

func (env *testEnv) createUser(t *testing.T, level, exp, points int) *types.User {
	t.Helper()
	user := &types.User{
		ID:            uuid.New(),
		Name:          "tester",
		Level:         level,
		Exp:           exp,
		AbilityPoints: points,
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func (env *testEnv) createShrine(t *testing.T, id int, lat, lng float64, deityIDs ...int) *types.Shrine {
	t.Helper()
	shrine := &types.Shrine{ID: id, Name: fmt.Sprintf("shrine-%d", id), Latitude: lat, Longitude: lng}
	if err := env.db.Create(shrine).Error; err != nil {
		t.Fatalf("creating shrine: %v", err)
	}
	for _, deityID := range deityIDs {
		deity := types.Deity{ID: deityID, Name: fmt.Sprintf("deity-%d", deityID)}
		if err := env.db.Where("id = ?", deityID).FirstOrCreate(&deity).Error; err != nil {
			t.Fatalf("creating deity: %v", err)
		}
		if err := env.db.Create(&types.ShrineDeity{ShrineID: id, DeityID: deityID}).Error; err != nil {
			t.Fatalf("linking deity: %v", err)
		}
	}
	return shrine
}

func (env *testEnv) createAbility(t *testing.T, def types.AbilityDefinition) {
	t.Helper()
	if err := env.db.Create(&def).Error; err != nil {
		t.Fatalf("creating ability: %v", err)
	}
}

func (env *testEnv) createSubscription(t *testing.T, userID uuid.UUID, subType string, expiresAt time.Time, active bool) *types.Subscription {
	t.Helper()
	sub := &types.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      subType,
		IsActive:  active,
		ExpiresAt: expiresAt,
	}
	if err := env.db.Create(sub).Error; err != nil {
		t.Fatalf("creating subscription: %v", err)
	}
	return sub
}

func intPtr(v int) *int { return &v }
