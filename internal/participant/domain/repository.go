package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, participant *Participant) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Participant, error)
	ListByCampaign(ctx context.Context, db *gorm.DB, campaignID snowflake.ID) ([]Participant, error)

	// Transition moves a participation from one status to another with a
	// guarded update. Returns false when the row was not in from status.
	Transition(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to ParticipationStatus, now time.Time) (bool, error)
	// TransitionByCampaign moves every participation of a campaign that is
	// in from status to to status. The sweeper cascades settlement with
	// it. Returns the number of rows moved.
	TransitionByCampaign(ctx context.Context, db *gorm.DB, campaignID snowflake.ID, from, to ParticipationStatus, now time.Time) (int64, error)
}
