// Package reservation holds the slot reservation engine. Every slot
// claim and release in the system goes through it so the capacity
// invariant lives in exactly one place.
package reservation

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sambatan/internal/campaign/domain"
	"github.com/smallbiznis/sambatan/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

type Engine struct {
	log  *zap.Logger
	repo domain.Repository
}

func NewEngine(p Params) *Engine {
	return &Engine{
		log:  p.Log.Named("campaign.reservation"),
		repo: p.Repo,
	}
}

// Reserve claims quantity slots inside the caller's transaction. When the
// guarded update misses, the campaign is re-read to classify the refusal:
// missing, past a terminal or FULL state, or simply out of room.
func (e *Engine) Reserve(ctx context.Context, tx *gorm.DB, campaignID snowflake.ID, quantity int, now time.Time) (*domain.ReserveOutcome, error) {
	outcome, err := e.repo.Reserve(ctx, tx, campaignID, quantity, now)
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		metrics.IncReservation(metrics.ReservationAccepted)
		return outcome, nil
	}

	campaign, err := e.repo.FindByID(ctx, tx, campaignID)
	if err != nil {
		return nil, err
	}
	switch {
	case campaign == nil:
		return nil, domain.ErrCampaignNotFound
	case campaign.Status != domain.StatusActive:
		metrics.IncReservation(metrics.ReservationClosed)
		return nil, domain.ErrCampaignClosed
	default:
		metrics.IncReservation(metrics.ReservationInsufficient)
		e.log.Debug("reservation refused, not enough slots",
			zap.String("campaign_id", campaignID.String()),
			zap.Int("requested", quantity),
			zap.Int("filled_slots", campaign.FilledSlots),
			zap.Int("total_slots", campaign.TotalSlots),
		)
		return nil, domain.ErrInsufficientSlots
	}
}

// Release hands quantity slots back after a cancellation. A FULL campaign
// keeps its FULL status; the lifecycle sweeper settles it either way.
func (e *Engine) Release(ctx context.Context, tx *gorm.DB, campaignID snowflake.ID, quantity int, now time.Time) error {
	if err := e.repo.Release(ctx, tx, campaignID, quantity, now); err != nil {
		return err
	}
	metrics.IncReservation(metrics.ReservationReleased)
	return nil
}
