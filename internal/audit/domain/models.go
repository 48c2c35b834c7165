// Package domain contains the append-only audit trail for campaigns.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Entry is one immutable audit record. Entries are never updated or
// deleted; per-campaign order follows the order operations committed.
type Entry struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	CampaignID snowflake.ID      `gorm:"not null;index"`
	Event      string            `gorm:"type:text;not null"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "audit_logs" }

const (
	EventCampaignCreated      = "campaign_created"
	EventCampaignFull         = "campaign_full"
	EventCampaignCompleted    = "campaign_completed"
	EventCampaignFailed       = "campaign_failed"
	EventParticipantJoined    = "participant_joined"
	EventParticipantCancelled = "participant_cancelled"
	EventParticipantConfirmed = "participant_confirmed"
)
