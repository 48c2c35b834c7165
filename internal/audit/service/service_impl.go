package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/sambatan/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultFeedLimit = 50

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Append(ctx context.Context, campaignID snowflake.ID, event string, at time.Time, metadata map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return auditdomain.ErrInvalidEvent
	}
	if campaignID == 0 {
		return auditdomain.ErrInvalidCampaign
	}

	payload := map[string]any{}
	for key, value := range metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}

	entry := auditdomain.Entry{
		ID:         s.genID.Generate(),
		CampaignID: campaignID,
		Event:      event,
		Metadata:   datatypes.JSONMap(payload),
		CreatedAt:  at.UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit log",
			zap.String("campaign_id", campaignID.String()),
			zap.String("event", event),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) ListByCampaign(ctx context.Context, campaignID snowflake.ID, limit int) ([]auditdomain.Entry, error) {
	if campaignID == 0 {
		return nil, auditdomain.ErrInvalidCampaign
	}
	return s.repo.List(ctx, s.db, auditdomain.ListFilter{
		CampaignID: campaignID,
		Limit:      normalizeLimit(limit),
	})
}

func (s *Service) List(ctx context.Context, limit int) ([]auditdomain.Entry, error) {
	return s.repo.List(ctx, s.db, auditdomain.ListFilter{
		Limit: normalizeLimit(limit),
	})
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultFeedLimit
	}
	if limit > 250 {
		return 250
	}
	return limit
}
