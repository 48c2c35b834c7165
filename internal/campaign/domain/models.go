package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type CampaignStatus string

const (
	StatusActive    CampaignStatus = "ACTIVE"
	StatusFull      CampaignStatus = "FULL"
	StatusCompleted CampaignStatus = "COMPLETED"
	StatusFailed    CampaignStatus = "FAILED"
)

// Terminal reports whether a campaign can never change status again.
func (s CampaignStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Campaign struct {
	ID           snowflake.ID   `json:"id" gorm:"primaryKey"`
	ProductID    snowflake.ID   `json:"product_id" gorm:"index"`
	Title        string         `json:"title"`
	TotalSlots   int            `json:"total_slots"`
	FilledSlots  int            `json:"filled_slots"`
	PricePerSlot int64          `json:"price_per_slot"`
	Deadline     time.Time      `json:"deadline"`
	Status       CampaignStatus `json:"status" gorm:"index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
