package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateCampaignRequest struct {
	ProductID    string    `json:"product_id" binding:"required"`
	Title        string    `json:"title" binding:"required"`
	TotalSlots   int       `json:"total_slots" binding:"required"`
	PricePerSlot int64     `json:"price_per_slot" binding:"required"`
	Deadline     time.Time `json:"deadline" binding:"required"`
}

type ListCampaignsRequest struct {
	Status CampaignStatus `form:"status"`
	Limit  int            `form:"limit"`
}

type Service interface {
	Create(ctx context.Context, req CreateCampaignRequest) (*Campaign, error)
	GetByID(ctx context.Context, id string) (*Campaign, error)
	List(ctx context.Context, req ListCampaignsRequest) ([]Campaign, error)
}

var (
	ErrInvalidCampaign     = errors.New("invalid_campaign")
	ErrCampaignNotFound    = errors.New("campaign_not_found")
	ErrCampaignClosed      = errors.New("campaign_closed")
	ErrInsufficientSlots   = errors.New("insufficient_slots")
	ErrInvalidTitle        = errors.New("invalid_title")
	ErrInvalidTotalSlots   = errors.New("invalid_total_slots")
	ErrInvalidPricePerSlot = errors.New("invalid_price_per_slot")
	ErrInvalidDeadline     = errors.New("invalid_deadline")
	ErrProductNotGroupBuy  = errors.New("product_not_group_buy_enabled")
)

// ParseID converts an external string ID into a snowflake ID. A zero or
// malformed value yields notFoundErr so handlers surface 404 instead of 500.
func ParseID(raw string, notFoundErr error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, notFoundErr
	}
	return id, nil
}
