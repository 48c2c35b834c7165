package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Append records an event for a campaign. It is called after the
	// causing mutation has committed, never inside its transaction.
	Append(ctx context.Context, campaignID snowflake.ID, event string, at time.Time, metadata map[string]any) error
	// ListByCampaign returns a campaign's entries, newest first.
	ListByCampaign(ctx context.Context, campaignID snowflake.ID, limit int) ([]Entry, error)
	// List returns the most recent entries across all campaigns.
	List(ctx context.Context, limit int) ([]Entry, error)
}

var (
	ErrInvalidEvent    = errors.New("invalid_event")
	ErrInvalidCampaign = errors.New("invalid_campaign")
)
