package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/sambatan/internal/audit/domain"
	"github.com/smallbiznis/sambatan/internal/campaign/domain"
	catalogdomain "github.com/smallbiznis/sambatan/internal/catalog/domain"
	"github.com/smallbiznis/sambatan/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Catalog catalogdomain.Service
	Audit   auditdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	catalog catalogdomain.Service
	audit   auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("campaign.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
		audit:   p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCampaignRequest) (*domain.Campaign, error) {
	now := s.clock.Now()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	if req.TotalSlots <= 0 {
		return nil, domain.ErrInvalidTotalSlots
	}
	if req.PricePerSlot <= 0 {
		return nil, domain.ErrInvalidPricePerSlot
	}
	if !req.Deadline.After(now) {
		return nil, domain.ErrInvalidDeadline
	}

	enabled, err := s.catalog.IsGroupBuyEnabled(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, domain.ErrProductNotGroupBuy
	}
	productID, err := domain.ParseID(req.ProductID, catalogdomain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	campaign := domain.Campaign{
		ID:           s.genID.Generate(),
		ProductID:    productID,
		Title:        title,
		TotalSlots:   req.TotalSlots,
		FilledSlots:  0,
		PricePerSlot: req.PricePerSlot,
		Deadline:     req.Deadline.UTC(),
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &campaign); err != nil {
		return nil, err
	}

	s.log.Info("campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("product_id", campaign.ProductID.String()),
		zap.Int("total_slots", campaign.TotalSlots),
		zap.Time("deadline", campaign.Deadline),
	)

	_ = s.audit.Append(ctx, campaign.ID, auditdomain.EventCampaignCreated, now, map[string]any{
		"product_id":  campaign.ProductID.String(),
		"total_slots": campaign.TotalSlots,
		"deadline":    campaign.Deadline,
	})

	return &campaign, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	campaignID, err := domain.ParseID(id, domain.ErrCampaignNotFound)
	if err != nil {
		return nil, err
	}

	campaign, err := s.repo.FindByID(ctx, s.db, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, domain.ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCampaignsRequest) ([]domain.Campaign, error) {
	switch req.Status {
	case "", domain.StatusActive, domain.StatusFull, domain.StatusCompleted, domain.StatusFailed:
	default:
		return nil, domain.ErrInvalidCampaign
	}

	// No limit means all campaigns.
	limit := req.Limit
	if limit < 0 {
		limit = 0
	}

	return s.repo.List(ctx, s.db, domain.ListFilter{
		Status: req.Status,
		Limit:  limit,
	})
}
