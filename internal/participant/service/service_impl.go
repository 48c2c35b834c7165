package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/sambatan/internal/audit/domain"
	campaigndomain "github.com/smallbiznis/sambatan/internal/campaign/domain"
	"github.com/smallbiznis/sambatan/internal/campaign/reservation"
	"github.com/smallbiznis/sambatan/internal/clock"
	"github.com/smallbiznis/sambatan/internal/participant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	CampaignRepo campaigndomain.Repository
	Engine       *reservation.Engine
	Audit        auditdomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	campaignRepo campaigndomain.Repository
	engine       *reservation.Engine
	audit        auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("participant.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		campaignRepo: p.CampaignRepo,
		engine:       p.Engine,
		audit:        p.Audit,
	}
}

func (s *Service) Join(ctx context.Context, req domain.JoinCampaignRequest) (*domain.Participant, error) {
	now := s.clock.Now()

	if strings.TrimSpace(req.UserID) == "" {
		return nil, domain.ErrInvalidUser
	}
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	campaignID, err := campaigndomain.ParseID(req.CampaignID, campaigndomain.ErrCampaignNotFound)
	if err != nil {
		return nil, err
	}

	participant := domain.Participant{
		ID:              s.genID.Generate(),
		CampaignID:      campaignID,
		UserID:          strings.TrimSpace(req.UserID),
		Quantity:        req.Quantity,
		Status:          domain.StatusReserved,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Note:            strings.TrimSpace(req.Note),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var becameFull bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		campaign, err := s.campaignRepo.FindByID(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return campaigndomain.ErrCampaignNotFound
		}
		if now.After(campaign.Deadline) {
			return campaigndomain.ErrCampaignClosed
		}

		outcome, err := s.engine.Reserve(ctx, tx, campaignID, req.Quantity, now)
		if err != nil {
			return err
		}
		becameFull = outcome.BecameFull

		return s.repo.Insert(ctx, tx, &participant)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("participant joined",
		zap.String("participant_id", participant.ID.String()),
		zap.String("campaign_id", campaignID.String()),
		zap.Int("quantity", req.Quantity),
		zap.Bool("campaign_full", becameFull),
	)

	_ = s.audit.Append(ctx, campaignID, auditdomain.EventParticipantJoined, now, map[string]any{
		"participant_id": participant.ID.String(),
		"user_id":        participant.UserID,
		"quantity":       participant.Quantity,
	})
	if becameFull {
		_ = s.audit.Append(ctx, campaignID, auditdomain.EventCampaignFull, now, nil)
	}

	return &participant, nil
}

func (s *Service) Cancel(ctx context.Context, participantID string) (*domain.Participant, error) {
	now := s.clock.Now()

	id, err := campaigndomain.ParseID(participantID, domain.ErrParticipationNotFound)
	if err != nil {
		return nil, err
	}

	var participant *domain.Participant
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		participant, err = s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if participant == nil {
			return domain.ErrParticipationNotFound
		}

		campaign, err := s.campaignRepo.FindByID(ctx, tx, participant.CampaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return campaigndomain.ErrCampaignNotFound
		}
		if campaign.Status.Terminal() {
			return campaigndomain.ErrCampaignClosed
		}

		moved, err := s.repo.Transition(ctx, tx, id, domain.StatusReserved, domain.StatusCancelled, now)
		if err != nil {
			return err
		}
		if !moved {
			return domain.ErrInvalidParticipationState
		}

		participant.Status = domain.StatusCancelled
		participant.UpdatedAt = now
		return s.engine.Release(ctx, tx, participant.CampaignID, participant.Quantity, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("participant cancelled",
		zap.String("participant_id", participant.ID.String()),
		zap.String("campaign_id", participant.CampaignID.String()),
		zap.Int("quantity", participant.Quantity),
	)

	_ = s.audit.Append(ctx, participant.CampaignID, auditdomain.EventParticipantCancelled, now, map[string]any{
		"participant_id": participant.ID.String(),
		"quantity":       participant.Quantity,
	})

	return participant, nil
}

func (s *Service) Confirm(ctx context.Context, participantID string) (*domain.Participant, error) {
	now := s.clock.Now()

	id, err := campaigndomain.ParseID(participantID, domain.ErrParticipationNotFound)
	if err != nil {
		return nil, err
	}

	participant, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, domain.ErrParticipationNotFound
	}

	moved, err := s.repo.Transition(ctx, s.db, id, domain.StatusReserved, domain.StatusConfirmed, now)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, domain.ErrInvalidParticipationState
	}

	participant.Status = domain.StatusConfirmed
	participant.UpdatedAt = now

	_ = s.audit.Append(ctx, participant.CampaignID, auditdomain.EventParticipantConfirmed, now, map[string]any{
		"participant_id": participant.ID.String(),
	})

	return participant, nil
}

func (s *Service) GetByID(ctx context.Context, participantID string) (*domain.Participant, error) {
	id, err := campaigndomain.ParseID(participantID, domain.ErrParticipationNotFound)
	if err != nil {
		return nil, err
	}

	participant, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, domain.ErrParticipationNotFound
	}
	return participant, nil
}

func (s *Service) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Participant, error) {
	id, err := campaigndomain.ParseID(campaignID, campaigndomain.ErrCampaignNotFound)
	if err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, campaigndomain.ErrCampaignNotFound
	}

	return s.repo.ListByCampaign(ctx, s.db, id)
}
