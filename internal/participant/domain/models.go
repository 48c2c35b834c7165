package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ParticipationStatus string

const (
	StatusReserved  ParticipationStatus = "RESERVED"
	StatusConfirmed ParticipationStatus = "CONFIRMED"
	StatusCancelled ParticipationStatus = "CANCELLED"
	StatusRefunded  ParticipationStatus = "REFUNDED"
)

// Holding reports whether the participation currently occupies slots.
func (s ParticipationStatus) Holding() bool {
	return s == StatusReserved || s == StatusConfirmed
}

type Participant struct {
	ID              snowflake.ID        `json:"id" gorm:"primaryKey"`
	CampaignID      snowflake.ID        `json:"campaign_id" gorm:"index"`
	UserID          string              `json:"user_id" gorm:"index"`
	Quantity        int                 `json:"quantity"`
	Status          ParticipationStatus `json:"status" gorm:"index"`
	ShippingAddress string              `json:"shipping_address"`
	Note            string              `json:"note"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (Participant) TableName() string {
	return "participants"
}
