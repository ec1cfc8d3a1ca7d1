package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/kmaruoka/maherama-sub000/internal/apierr"
)

func TestGrantExperienceLevelUp(t *testing.T) {
	cases := []struct {
		name        string
		startLevel  int
		startExp    int
		amount      int
		wantLevel   int
		wantExp     int
		wantLevelUp bool
		wantPoints  int
	}{
		{
			name:       "no_level_up_below_threshold",
			startLevel: 0, startExp: 0, amount: 30,
			wantLevel: 0, wantExp: 30, wantLevelUp: false, wantPoints: 0,
		},
		{
			name:       "level_up_at_exact_threshold",
			startLevel: 0, startExp: 0, amount: 50,
			wantLevel: 1, wantExp: 50, wantLevelUp: true, wantPoints: 1,
		},
		{
			name:       "level_up_past_threshold",
			startLevel: 0, startExp: 40, amount: 20,
			wantLevel: 1, wantExp: 60, wantLevelUp: true, wantPoints: 1,
		},
		{
			name: "single_step_even_when_exp_spans_two_tiers",
			// 0 -> 200 exp covers tiers 1 (50) and 2 (120), but one grant
			// advances one level.
			startLevel: 0, startExp: 0, amount: 200,
			wantLevel: 1, wantExp: 200, wantLevelUp: true, wantPoints: 1,
		},
		{
			name:       "max_level_keeps_accumulating",
			startLevel: 3, startExp: 220, amount: 100,
			wantLevel: 3, wantExp: 320, wantLevelUp: false, wantPoints: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seedTiers(t, defaultTiers())
			user := env.createUser(t, tc.startLevel, tc.startExp, 0)

			result, err := env.progression.GrantExperience(context.Background(), user.ID, tc.amount)
			if err != nil {
				t.Fatalf("GrantExperience: %v", err)
			}
			if result.NewLevel != tc.wantLevel || result.NewExp != tc.wantExp {
				t.Fatalf("got level=%d exp=%d, want level=%d exp=%d", result.NewLevel, result.NewExp, tc.wantLevel, tc.wantExp)
			}
			if result.LeveledUp != tc.wantLevelUp {
				t.Fatalf("got leveledUp=%v, want %v", result.LeveledUp, tc.wantLevelUp)
			}
			if result.AbilityPointsGained != tc.wantPoints {
				t.Fatalf("got points=%d, want %d", result.AbilityPointsGained, tc.wantPoints)
			}

			stored, err := env.users.GetByID(context.Background(), nil, user.ID)
			if err != nil {
				t.Fatalf("reloading user: %v", err)
			}
			if stored.Exp != tc.wantExp || stored.Level != tc.wantLevel || stored.AbilityPoints != tc.wantPoints {
				t.Fatalf("persisted user = level %d exp %d points %d, want level %d exp %d points %d",
					stored.Level, stored.Exp, stored.AbilityPoints, tc.wantLevel, tc.wantExp, tc.wantPoints)
			}
		})
	}
}

func TestGrantExperienceSplitEqualsLumpSum(t *testing.T) {
	ctx := context.Background()

	envSplit := newTestEnv(t)
	envSplit.seedTiers(t, defaultTiers())
	split := envSplit.createUser(t, 0, 0, 0)
	if _, err := envSplit.progression.GrantExperience(ctx, split.ID, 20); err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if _, err := envSplit.progression.GrantExperience(ctx, split.ID, 40); err != nil {
		t.Fatalf("second grant: %v", err)
	}

	envLump := newTestEnv(t)
	envLump.seedTiers(t, defaultTiers())
	lump := envLump.createUser(t, 0, 0, 0)
	if _, err := envLump.progression.GrantExperience(ctx, lump.ID, 60); err != nil {
		t.Fatalf("lump grant: %v", err)
	}

	splitUser, err := envSplit.users.GetByID(ctx, nil, split.ID)
	if err != nil {
		t.Fatalf("reloading split user: %v", err)
	}
	lumpUser, err := envLump.users.GetByID(ctx, nil, lump.ID)
	if err != nil {
		t.Fatalf("reloading lump user: %v", err)
	}
	if splitUser.Level != lumpUser.Level || splitUser.Exp != lumpUser.Exp {
		t.Fatalf("split (level %d, exp %d) != lump (level %d, exp %d)",
			splitUser.Level, splitUser.Exp, lumpUser.Level, lumpUser.Exp)
	}
}

func TestGrantExperienceMissingUser(t *testing.T) {
	env := newTestEnv(t)
	env.seedTiers(t, defaultTiers())

	_, err := env.progression.GrantExperience(context.Background(), uuid.New(), 10)
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("got %v, want not_found", err)
	}
}

func TestGrantExperienceMissingTierIsConfigurationError(t *testing.T) {
	env := newTestEnv(t)
	// No tiers seeded at all.
	user := env.createUser(t, 0, 0, 0)

	_, err := env.progression.GrantExperience(context.Background(), user.ID, 10)
	if !apierr.IsCode(err, apierr.CodeConfigurationError) {
		t.Fatalf("got %v, want configuration_error", err)
	}

	// Nothing committed.
	stored, err := env.users.GetByID(context.Background(), nil, user.ID)
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	if stored.Exp != 0 {
		t.Fatalf("exp mutated to %d on failed grant", stored.Exp)
	}
}
