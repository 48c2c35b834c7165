package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/smallbiznis/sambatan/internal/audit/domain"
	auditrepository "github.com/smallbiznis/sambatan/internal/audit/repository"
	auditservice "github.com/smallbiznis/sambatan/internal/audit/service"
	campaigndomain "github.com/smallbiznis/sambatan/internal/campaign/domain"
	campaignrepository "github.com/smallbiznis/sambatan/internal/campaign/repository"
	"github.com/smallbiznis/sambatan/internal/campaign/reservation"
	"github.com/smallbiznis/sambatan/internal/clock"
	"github.com/smallbiznis/sambatan/internal/participant/domain"
	participantrepository "github.com/smallbiznis/sambatan/internal/participant/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db           *gorm.DB
	node         *snowflake.Node
	clock        *clock.FakeClock
	campaignRepo campaigndomain.Repository
	audit        auditdomain.Service
	svc          domain.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&campaigndomain.Campaign{},
		&domain.Participant{},
		&auditdomain.Entry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	logger := zap.NewNop()

	campaignRepo := campaignrepository.Provide()
	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Repo:  auditrepository.Provide(),
	})
	svc := NewService(Params{
		DB:           db,
		Log:          logger,
		GenID:        node,
		Clock:        fakeClock,
		Repo:         participantrepository.Provide(),
		CampaignRepo: campaignRepo,
		Engine: reservation.NewEngine(reservation.Params{
			Log:  logger,
			Repo: campaignRepo,
		}),
		Audit: auditSvc,
	})

	return &fixture{
		db:           db,
		node:         node,
		clock:        fakeClock,
		campaignRepo: campaignRepo,
		audit:        auditSvc,
		svc:          svc,
	}
}

func (f *fixture) seedCampaign(t *testing.T, totalSlots int, deadline time.Time) campaigndomain.Campaign {
	t.Helper()

	now := f.clock.Now()
	campaign := campaigndomain.Campaign{
		ID:           f.node.Generate(),
		ProductID:    f.node.Generate(),
		Title:        "patungan beras 25kg",
		TotalSlots:   totalSlots,
		PricePerSlot: 30000,
		Deadline:     deadline,
		Status:       campaigndomain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.db.Create(&campaign).Error)
	return campaign
}

// assertSlotAccounting checks that the campaign's filled_slots equals the
// summed quantity of its RESERVED and CONFIRMED participations.
func (f *fixture) assertSlotAccounting(t *testing.T, campaignID snowflake.ID) {
	t.Helper()

	var filled int
	require.NoError(t, f.db.Raw(
		`SELECT filled_slots FROM campaigns WHERE id = ?`, campaignID,
	).Scan(&filled).Error)

	var held int
	require.NoError(t, f.db.Raw(
		`SELECT COALESCE(SUM(quantity), 0) FROM participants
		 WHERE campaign_id = ? AND status IN (?, ?)`,
		campaignID, domain.StatusReserved, domain.StatusConfirmed,
	).Scan(&held).Error)

	assert.Equal(t, held, filled, "filled_slots must equal held participant quantity")
}

func TestJoin_FillsCampaignToFull(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	campaign := f.seedCampaign(t, 5, f.clock.Now().Add(48*time.Hour))

	first, err := f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-a",
		Quantity:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReserved, first.Status)

	second, err := f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-b",
		Quantity:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReserved, second.Status)

	got, err := f.campaignRepo.FindByID(ctx, f.db, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, campaigndomain.StatusFull, got.Status)
	assert.Equal(t, 5, got.FilledSlots)
	f.assertSlotAccounting(t, campaign.ID)

	// A FULL campaign refuses further joins.
	_, err = f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-c",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, campaigndomain.ErrCampaignClosed)

	entries, err := f.audit.ListByCampaign(ctx, campaign.ID, 10)
	require.NoError(t, err)
	events := make([]string, 0, len(entries))
	for _, entry := range entries {
		events = append(events, entry.Event)
	}
	assert.Contains(t, events, auditdomain.EventParticipantJoined)
	assert.Contains(t, events, auditdomain.EventCampaignFull)
}

func TestJoin_RefusesPartialFill(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	campaign := f.seedCampaign(t, 5, f.clock.Now().Add(48*time.Hour))

	_, err := f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-a",
		Quantity:   4,
	})
	require.NoError(t, err)

	// Two slots requested, one left: all-or-nothing, so nothing.
	_, err = f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-b",
		Quantity:   2,
	})
	assert.ErrorIs(t, err, campaigndomain.ErrInsufficientSlots)

	got, err := f.campaignRepo.FindByID(ctx, f.db, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.FilledSlots)
	assert.Equal(t, campaigndomain.StatusActive, got.Status)
	f.assertSlotAccounting(t, campaign.ID)

	// The remaining slot is still claimable.
	_, err = f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-b",
		Quantity:   1,
	})
	require.NoError(t, err)
	f.assertSlotAccounting(t, campaign.ID)
}

func TestJoin_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	campaign := f.seedCampaign(t, 5, f.clock.Now().Add(48*time.Hour))

	_, err := f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     " ",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-a",
		Quantity:   0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: f.node.Generate().String(),
		UserID:     "user-a",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, campaigndomain.ErrCampaignNotFound)
}

func TestJoin_RefusesAfterDeadline(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	campaign := f.seedCampaign(t, 5, f.clock.Now().Add(time.Hour))

	// At the deadline instant the campaign is still open.
	f.clock.Advance(time.Hour)
	_, err := f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-a",
		Quantity:   1,
	})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	_, err = f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-b",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, campaigndomain.ErrCampaignClosed)
}

func TestCancel_ReleasesSlots(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	campaign := f.seedCampaign(t, 5, f.clock.Now().Add(48*time.Hour))

	joined, err := f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-a",
		Quantity:   3,
	})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, joined.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	got, err := f.campaignRepo.FindByID(ctx, f.db, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FilledSlots)
	f.assertSlotAccounting(t, campaign.ID)

	// Cancelling twice trips the state guard.
	_, err = f.svc.Cancel(ctx, joined.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidParticipationState)
}

func TestCancel_DoesNotReopenFullCampaign(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	campaign := f.seedCampaign(t, 3, f.clock.Now().Add(48*time.Hour))

	joined, err := f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-a",
		Quantity:   3,
	})
	require.NoError(t, err)

	got, err := f.campaignRepo.FindByID(ctx, f.db, campaign.ID)
	require.NoError(t, err)
	require.Equal(t, campaigndomain.StatusFull, got.Status)

	_, err = f.svc.Cancel(ctx, joined.ID.String())
	require.NoError(t, err)

	// Slots come back but FULL stands; the sweeper settles the campaign.
	got, err = f.campaignRepo.FindByID(ctx, f.db, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FilledSlots)
	assert.Equal(t, campaigndomain.StatusFull, got.Status)

	_, err = f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-b",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, campaigndomain.ErrCampaignClosed)
}

func TestConfirm_OnlyFromReserved(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	campaign := f.seedCampaign(t, 5, f.clock.Now().Add(48*time.Hour))

	joined, err := f.svc.Join(ctx, domain.JoinCampaignRequest{
		CampaignID: campaign.ID.String(),
		UserID:     "user-a",
		Quantity:   2,
	})
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, joined.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)
	f.assertSlotAccounting(t, campaign.ID)

	// Confirmed participations cannot be confirmed again or cancelled.
	_, err = f.svc.Confirm(ctx, joined.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidParticipationState)

	_, err = f.svc.Cancel(ctx, joined.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidParticipationState)

	_, err = f.svc.Confirm(ctx, f.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrParticipationNotFound)
}

func TestListByCampaign(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	campaign := f.seedCampaign(t, 10, f.clock.Now().Add(48*time.Hour))

	for _, user := range []string{"user-a", "user-b", "user-c"} {
		_, err := f.svc.Join(ctx, domain.JoinCampaignRequest{
			CampaignID: campaign.ID.String(),
			UserID:     user,
			Quantity:   1,
		})
		require.NoError(t, err)
	}

	participants, err := f.svc.ListByCampaign(ctx, campaign.ID.String())
	require.NoError(t, err)
	assert.Len(t, participants, 3)

	_, err = f.svc.ListByCampaign(ctx, f.node.Generate().String())
	assert.ErrorIs(t, err, campaigndomain.ErrCampaignNotFound)
}
