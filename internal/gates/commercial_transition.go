package gates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

// A required transition must be re-confirmed at least this often for a
// release to pass.
const transitionConfirmWindow = 7 * 24 * time.Hour

var (
	ErrNoTransitionRecord = errors.New("no commercial transition record found")
	ErrTransitionStale    = errors.New("commercial transition required but not confirmed within 7 days")
)

// CommercialTransitionGate pins the commercialization triggers in code:
// ads on, paid features on, or affiliate revenue. Any of the three flips
// the transition requirement, and every check leaves an append-only record.
type CommercialTransitionGate struct {
	log     *logger.Logger
	records repos.CommercialTransitionRepo
}

func NewCommercialTransitionGate(records repos.CommercialTransitionRepo, baseLog *logger.Logger) *CommercialTransitionGate {
	return &CommercialTransitionGate{
		log:     baseLog.With("gate", "CommercialTransitionGate"),
		records: records,
	}
}

type CommercialTrigger struct {
	AdsEnabled               bool `json:"ads_enabled"`
	PaidFeaturesEnabled      bool `json:"paid_features_enabled"`
	AffiliateRevenueOccurred bool `json:"affiliate_revenue_occurred"`
}

func (g *CommercialTransitionGate) CheckAndRecord(ctx context.Context, triggers CommercialTrigger, checkedBy, notes string) (*types.CommercialTransition, error) {
	required := triggers.AdsEnabled || triggers.PaidFeaturesEnabled || triggers.AffiliateRevenueOccurred

	created, err := g.records.Create(ctx, nil, []*types.CommercialTransition{{
		AdsEnabled:                   triggers.AdsEnabled,
		PaidFeaturesEnabled:          triggers.PaidFeaturesEnabled,
		AffiliateRevenueOccurred:     triggers.AffiliateRevenueOccurred,
		CommercialTransitionRequired: required,
		CheckedAt:                    time.Now(),
		CheckedBy:                    checkedBy,
		Notes:                        notes,
	}})
	if err != nil {
		g.log.Error("failed to record commercial transition check", "error", err)
		return nil, err
	}
	return created[0], nil
}

// LatestStatus returns the newest record by check time, or nil when none
// exists yet.
func (g *CommercialTransitionGate) LatestStatus(ctx context.Context) (*types.CommercialTransition, error) {
	return g.records.GetLatest(ctx, nil)
}

// ValidateReleaseChecklist is the CI hook: it fails when no check was ever
// recorded, or when a required transition has not been re-confirmed within
// the window.
func (g *CommercialTransitionGate) ValidateReleaseChecklist(ctx context.Context) error {
	latest, err := g.LatestStatus(ctx)
	if err != nil {
		return err
	}
	if latest == nil {
		return ErrNoTransitionRecord
	}
	if latest.CommercialTransitionRequired && time.Since(latest.CheckedAt) > transitionConfirmWindow {
		return fmt.Errorf("%w (last checked: %s)", ErrTransitionStale, latest.CheckedAt.Format(time.RFC3339))
	}
	return nil
}
