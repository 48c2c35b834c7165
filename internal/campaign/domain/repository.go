package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status CampaignStatus
	Limit  int
}

// ReserveOutcome describes the campaign counters after a successful
// reservation.
type ReserveOutcome struct {
	FilledSlots int
	BecameFull  bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, campaign *Campaign) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Campaign, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Campaign, error)
	// ListDue returns campaigns the sweeper has work for: FULL campaigns
	// and ACTIVE campaigns past their deadline, oldest first, capped at
	// limit. Settled campaigns drop out of the set, so draining it to
	// empty terminates.
	ListDue(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]Campaign, error)

	// Reserve atomically claims quantity slots on an ACTIVE campaign.
	// The guard enforces filled_slots + quantity <= total_slots and flips
	// status to FULL when capacity is reached. A zero-row update means the
	// campaign is missing, closed, or lacks room; callers classify via
	// FindByID.
	Reserve(ctx context.Context, db *gorm.DB, id snowflake.ID, quantity int, now time.Time) (*ReserveOutcome, error)
	// Release returns quantity slots to an ACTIVE campaign. FULL campaigns
	// keep their status; completion settles them regardless.
	Release(ctx context.Context, db *gorm.DB, id snowflake.ID, quantity int, now time.Time) error

	// MarkCompleted transitions ACTIVE or FULL to COMPLETED. Returns
	// false when the campaign was already terminal.
	MarkCompleted(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error)
	// MarkFailed transitions ACTIVE to FAILED. Returns false when the
	// campaign was not ACTIVE anymore.
	MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error)
}
