package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmaruoka/maherama-sub000/internal/apierr"
	"github.com/kmaruoka/maherama-sub000/internal/logger"
	"github.com/kmaruoka/maherama-sub000/internal/repos"
	"github.com/kmaruoka/maherama-sub000/internal/types"
)

type PurchaseResult struct {
	Cost          int `json:"cost"`
	AbilityPoints int `json:"ability_points"`
}

// AbilityService governs the prerequisite-gated ability tree: purchases
// debit ability points atomically, reset refunds every owned ability and
// consumes the reset subscription.
type AbilityService interface {
	CanPurchase(ctx context.Context, userID uuid.UUID, abilityID int) error
	Purchase(ctx context.Context, userID uuid.UUID, abilityID int) (*PurchaseResult, error)
	Reset(ctx context.Context, userID uuid.UUID) (int, error)
	ListDefinitions(ctx context.Context) ([]types.AbilityDefinition, error)
	ListOwned(ctx context.Context, userID uuid.UUID) ([]types.UserAbility, error)
}

type abilityService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	defRepo    repos.AbilityDefinitionRepo
	ownedRepo  repos.UserAbilityRepo
	ledgerRepo repos.AbilityLedgerRepo
	subRepo    repos.SubscriptionRepo
	effects    EffectService
}

func NewAbilityService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, defRepo repos.AbilityDefinitionRepo, ownedRepo repos.UserAbilityRepo, ledgerRepo repos.AbilityLedgerRepo, subRepo repos.SubscriptionRepo, effects EffectService) AbilityService {
	return &abilityService{
		db:         db,
		log:        log.With("service", "AbilityService"),
		userRepo:   userRepo,
		defRepo:    defRepo,
		ownedRepo:  ownedRepo,
		ledgerRepo: ledgerRepo,
		subRepo:    subRepo,
		effects:    effects,
	}
}

// checkPurchase validates user existence, ability existence, uniqueness,
// prerequisite and affordability against the given tx view.
func (as *abilityService) checkPurchase(ctx context.Context, tx *gorm.DB, user *types.User, abilityID int) (*types.AbilityDefinition, error) {
	def, err := as.defRepo.GetByID(ctx, tx, abilityID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, apierr.NotFound("ability %d not found", abilityID)
		}
		return nil, err
	}

	owned, err := as.ownedRepo.Exists(ctx, tx, user.ID, abilityID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, apierr.AlreadyOwned("ability %d already owned", abilityID)
	}

	if def.PrerequisiteID != nil {
		hasPrereq, err := as.ownedRepo.Exists(ctx, tx, user.ID, *def.PrerequisiteID)
		if err != nil {
			return nil, err
		}
		if !hasPrereq {
			return nil, apierr.PrerequisiteNotMet("ability %d requires ability %d", abilityID, *def.PrerequisiteID)
		}
	}

	if user.AbilityPoints < def.Cost {
		return nil, apierr.InsufficientPoints("ability %d costs %d, have %d points", abilityID, def.Cost, user.AbilityPoints)
	}
	return def, nil
}

func (as *abilityService) CanPurchase(ctx context.Context, userID uuid.UUID, abilityID int) error {
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return apierr.NotFound("user %s not found", userID)
		}
		return err
	}
	_, err = as.checkPurchase(ctx, nil, user, abilityID)
	return err
}

func (as *abilityService) Purchase(ctx context.Context, userID uuid.UUID, abilityID int) (*PurchaseResult, error) {
	var result PurchaseResult

	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The row lock serializes concurrent purchases for the same user;
		// the unique (user_id, ability_id) index is the final backstop.
		user, err := as.userRepo.GetByIDForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return apierr.NotFound("user %s not found", userID)
			}
			return err
		}

		def, err := as.checkPurchase(ctx, tx, user, abilityID)
		if err != nil {
			return err
		}

		remaining := user.AbilityPoints - def.Cost
		if err := as.userRepo.UpdateProgression(ctx, tx, userID, user.Exp, user.Level, remaining); err != nil {
			return err
		}
		if err := as.ownedRepo.Create(ctx, tx, userID, abilityID); err != nil {
			return err
		}
		if err := as.ledgerRepo.Append(ctx, tx, userID, abilityID, def.Cost); err != nil {
			return err
		}

		result = PurchaseResult{Cost: def.Cost, AbilityPoints: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("ability purchased", "user_id", userID, "ability_id", abilityID, "cost", result.Cost)
	as.effects.Invalidate(ctx, userID)
	return &result, nil
}

func (as *abilityService) Reset(ctx context.Context, userID uuid.UUID) (int, error) {
	var refunded int
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := as.userRepo.GetByIDForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return apierr.NotFound("user %s not found", userID)
			}
			return err
		}

		// The gate runs under the user lock: a racing reset serializes
		// here and then sees the subscription the winner consumed.
		sub, err := as.subRepo.GetActive(ctx, tx, userID, types.SubscriptionTypeResetAbilities, time.Now())
		if err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return apierr.SubscriptionRequired("reset requires an active reset_abilities subscription")
			}
			return err
		}

		owned, err := as.ownedRepo.GetByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}

		abilityIDs := make([]int, 0, len(owned))
		for _, row := range owned {
			abilityIDs = append(abilityIDs, row.AbilityID)
		}
		defs, err := as.defRepo.GetByIDs(ctx, tx, abilityIDs)
		if err != nil {
			return err
		}
		total := 0
		for _, def := range defs {
			total += def.Cost
		}

		if err := as.userRepo.UpdateProgression(ctx, tx, userID, user.Exp, user.Level, user.AbilityPoints+total); err != nil {
			return err
		}
		if err := as.ownedRepo.DeleteAllByUserID(ctx, tx, userID); err != nil {
			return err
		}

		// Each refund entry carries the full total, matching the historical
		// ledger shape consumers already parse.
		entries := make([]types.AbilityLedgerEntry, 0, len(owned))
		for _, row := range owned {
			entries = append(entries, types.AbilityLedgerEntry{
				UserID:      userID,
				AbilityID:   row.AbilityID,
				PointsSpent: -total,
			})
		}
		if err := as.ledgerRepo.AppendBatch(ctx, tx, entries); err != nil {
			return err
		}

		// One reset per purchased subscription. Zero rows updated means
		// another reset consumed it first; roll the refund back.
		if err := as.subRepo.Deactivate(ctx, tx, sub.ID); err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return apierr.SubscriptionRequired("reset requires an active reset_abilities subscription")
			}
			return err
		}

		refunded = total
		return nil
	})
	if err != nil {
		return 0, err
	}

	as.log.Info("abilities reset", "user_id", userID, "refunded", refunded)
	as.effects.Invalidate(ctx, userID)
	return refunded, nil
}

func (as *abilityService) ListDefinitions(ctx context.Context) ([]types.AbilityDefinition, error) {
	return as.defRepo.GetAll(ctx, nil)
}

func (as *abilityService) ListOwned(ctx context.Context, userID uuid.UUID) ([]types.UserAbility, error) {
	if _, err := as.userRepo.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, apierr.NotFound("user %s not found", userID)
		}
		return nil, err
	}
	return as.ownedRepo.GetByUserID(ctx, nil, userID)
}
