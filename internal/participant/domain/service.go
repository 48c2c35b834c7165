package domain

import (
	"context"
	"errors"
)

type JoinCampaignRequest struct {
	CampaignID      string `json:"-"`
	UserID          string `json:"user_id" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required"`
	ShippingAddress string `json:"shipping_address"`
	Note            string `json:"note"`
}

type Service interface {
	// Join reserves slots and records a RESERVED participation in a
	// single transaction.
	Join(ctx context.Context, req JoinCampaignRequest) (*Participant, error)
	// Cancel moves a RESERVED participation to CANCELLED and returns its
	// slots to the campaign.
	Cancel(ctx context.Context, participantID string) (*Participant, error)
	// Confirm moves a RESERVED participation to CONFIRMED. Slots stay
	// claimed.
	Confirm(ctx context.Context, participantID string) (*Participant, error)
	GetByID(ctx context.Context, participantID string) (*Participant, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]Participant, error)
}

var (
	ErrParticipationNotFound     = errors.New("participation_not_found")
	ErrInvalidQuantity           = errors.New("invalid_quantity")
	ErrInvalidUser               = errors.New("invalid_user")
	ErrInvalidParticipationState = errors.New("invalid_participation_state")
)
