package service

import (
	"context"

	campaigndomain "github.com/smallbiznis/sambatan/internal/campaign/domain"
	"github.com/smallbiznis/sambatan/internal/dashboard/domain"
	participantdomain "github.com/smallbiznis/sambatan/internal/participant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("dashboard.service"),
	}
}

type campaignRow struct {
	Status      campaigndomain.CampaignStatus
	Count       int64
	FilledSlots int64
	TotalSlots  int64
}

type participantRow struct {
	Status participantdomain.ParticipationStatus
	Count  int64
}

func (s *Service) Summary(ctx context.Context) (*domain.Summary, error) {
	var campaignRows []campaignRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT status,
		        COUNT(*) AS count,
		        COALESCE(SUM(filled_slots), 0) AS filled_slots,
		        COALESCE(SUM(total_slots), 0) AS total_slots
		 FROM campaigns
		 GROUP BY status`,
	).Scan(&campaignRows).Error
	if err != nil {
		return nil, err
	}

	var participantRows []participantRow
	err = s.db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS count
		 FROM participants
		 GROUP BY status`,
	).Scan(&participantRows).Error
	if err != nil {
		return nil, err
	}

	summary := &domain.Summary{}
	for _, row := range campaignRows {
		summary.TotalCampaigns += row.Count
		switch row.Status {
		case campaigndomain.StatusActive:
			summary.ActiveCampaigns = row.Count
			summary.OpenFilledSlots += row.FilledSlots
			summary.OpenTotalSlots += row.TotalSlots
		case campaigndomain.StatusFull:
			summary.FullCampaigns = row.Count
			summary.OpenFilledSlots += row.FilledSlots
			summary.OpenTotalSlots += row.TotalSlots
		case campaigndomain.StatusCompleted:
			summary.CompletedCampaigns = row.Count
		case campaigndomain.StatusFailed:
			summary.FailedCampaigns = row.Count
		}
	}
	for _, row := range participantRows {
		switch row.Status {
		case participantdomain.StatusReserved:
			summary.ReservedParticipants = row.Count
		case participantdomain.StatusConfirmed:
			summary.ConfirmedParticipants = row.Count
		}
	}

	return summary, nil
}
