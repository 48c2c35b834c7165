// Package lifecycle settles campaigns that have run their course. The
// sweeper moves FULL campaigns and expired ACTIVE campaigns to their
// terminal status and cascades the outcome onto their participants.
package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/sambatan/internal/audit/domain"
	campaigndomain "github.com/smallbiznis/sambatan/internal/campaign/domain"
	"github.com/smallbiznis/sambatan/internal/clock"
	"github.com/smallbiznis/sambatan/internal/metrics"
	participantdomain "github.com/smallbiznis/sambatan/internal/participant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSweepInProgress is returned when RunOnce is called while another
// sweep holds the run lock. Callers treat it as "nothing to do".
var ErrSweepInProgress = errors.New("sweep_in_progress")

// Transition records one campaign settled by a sweep.
type Transition struct {
	CampaignID   snowflake.ID                  `json:"campaign_id"`
	From         campaigndomain.CampaignStatus `json:"from"`
	To           campaigndomain.CampaignStatus `json:"to"`
	Participants int64                         `json:"participants"`
}

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	Clock           clock.Clock
	CampaignRepo    campaigndomain.Repository
	ParticipantRepo participantdomain.Repository
	AuditSvc        auditdomain.Service
	Config          Config `optional:"true"`
}

type Sweeper struct {
	db              *gorm.DB
	log             *zap.Logger
	cfg             Config
	clock           clock.Clock
	campaignRepo    campaigndomain.Repository
	participantRepo participantdomain.Repository
	auditSvc        auditdomain.Service

	running atomic.Bool
}

func New(p Params) *Sweeper {
	return &Sweeper{
		db:              p.DB,
		log:             p.Log.Named("lifecycle.sweeper"),
		cfg:             p.Config.withDefaults(),
		clock:           p.Clock,
		campaignRepo:    p.CampaignRepo,
		participantRepo: p.ParticipantRepo,
		auditSvc:        p.AuditSvc,
	}
}

// RunOnce performs a single sweep. At most one sweep runs at a time per
// process; a second caller gets ErrSweepInProgress. The sweep is
// idempotent: guarded status updates make a second pass over an already
// settled campaign a no-op.
func (s *Sweeper) RunOnce(ctx context.Context) ([]Transition, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSweepInProgress
	}
	defer s.running.Store(false)

	start := time.Now()
	defer func() {
		metrics.ObserveSweepDuration(time.Since(start))
	}()

	now := s.clock.Now()
	var (
		transitions []Transition
		sweepErr    error
	)

	for {
		if ctx.Err() != nil {
			return transitions, errors.Join(sweepErr, ctx.Err())
		}

		campaigns, err := s.campaignRepo.ListDue(ctx, s.db, now, s.cfg.BatchSize)
		if err != nil {
			return transitions, errors.Join(sweepErr, err)
		}
		if len(campaigns) == 0 {
			break
		}

		progressed := false
		for _, campaign := range campaigns {
			transition, err := s.settleCampaign(ctx, campaign, now)
			if err != nil {
				sweepErr = errors.Join(sweepErr, err)
				metrics.IncSweepCampaignError()
				s.log.Warn("failed to settle campaign",
					zap.String("campaign_id", campaign.ID.String()),
					zap.String("status", string(campaign.Status)),
					zap.Error(err),
				)
				continue
			}
			if transition != nil {
				progressed = true
				transitions = append(transitions, *transition)
			}
		}
		// Every campaign in the batch errored or was already settled by a
		// racing writer. Bail instead of refetching the same rows.
		if !progressed {
			break
		}
	}

	if len(transitions) > 0 {
		s.log.Info("sweep finished",
			zap.Int("transitions", len(transitions)),
			zap.Duration("took", time.Since(start)),
		)
	}
	return transitions, sweepErr
}

// settleCampaign decides and applies the terminal status for one campaign
// in its own transaction. A nil transition with nil error means another
// writer got there first.
func (s *Sweeper) settleCampaign(ctx context.Context, campaign campaigndomain.Campaign, now time.Time) (*Transition, error) {
	complete := campaign.Status == campaigndomain.StatusFull ||
		campaign.FilledSlots >= campaign.TotalSlots
	// Failure requires the deadline to be strictly in the past. At the
	// deadline instant the campaign is still open.
	if !complete && !now.After(campaign.Deadline) {
		return nil, nil
	}

	var (
		transition Transition
		applied    bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if complete {
			updated, err := s.campaignRepo.MarkCompleted(ctx, tx, campaign.ID, now)
			if err != nil || !updated {
				return err
			}
			moved, err := s.participantRepo.TransitionByCampaign(ctx, tx,
				campaign.ID, participantdomain.StatusReserved, participantdomain.StatusConfirmed, now)
			if err != nil {
				return err
			}
			transition = Transition{
				CampaignID:   campaign.ID,
				From:         campaign.Status,
				To:           campaigndomain.StatusCompleted,
				Participants: moved,
			}
			applied = true
			return nil
		}

		updated, err := s.campaignRepo.MarkFailed(ctx, tx, campaign.ID, now)
		if err != nil || !updated {
			return err
		}
		// Only RESERVED participations are refunded. CONFIRMED is terminal
		// and stays put even when the campaign fails.
		refunded, err := s.participantRepo.TransitionByCampaign(ctx, tx,
			campaign.ID, participantdomain.StatusReserved, participantdomain.StatusRefunded, now)
		if err != nil {
			return err
		}
		transition = Transition{
			CampaignID:   campaign.ID,
			From:         campaign.Status,
			To:           campaigndomain.StatusFailed,
			Participants: refunded,
		}
		applied = true
		return nil
	})
	if err != nil || !applied {
		return nil, err
	}

	metrics.IncSweepTransition(string(transition.To))

	event := auditdomain.EventCampaignCompleted
	if transition.To == campaigndomain.StatusFailed {
		event = auditdomain.EventCampaignFailed
	}
	_ = s.auditSvc.Append(ctx, campaign.ID, event, now, map[string]any{
		"from":         string(transition.From),
		"participants": transition.Participants,
		"filled_slots": campaign.FilledSlots,
		"total_slots":  campaign.TotalSlots,
	})

	return &transition, nil
}

// RunForever sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrSweepInProgress) {
			s.log.Warn("sweep run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
