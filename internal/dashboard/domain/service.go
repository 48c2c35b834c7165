package domain

import "context"

// Summary is a point-in-time rollup for the operations dashboard. It is
// computed on read; numbers from concurrent writers may be a moment stale.
type Summary struct {
	ActiveCampaigns    int64 `json:"active_campaigns"`
	FullCampaigns      int64 `json:"full_campaigns"`
	CompletedCampaigns int64 `json:"completed_campaigns"`
	FailedCampaigns    int64 `json:"failed_campaigns"`
	TotalCampaigns     int64 `json:"total_campaigns"`

	// OpenFilledSlots and OpenTotalSlots cover ACTIVE and FULL campaigns
	// only; terminal campaigns no longer hold inventory.
	OpenFilledSlots int64 `json:"open_filled_slots"`
	OpenTotalSlots  int64 `json:"open_total_slots"`

	ReservedParticipants  int64 `json:"reserved_participants"`
	ConfirmedParticipants int64 `json:"confirmed_participants"`
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}
