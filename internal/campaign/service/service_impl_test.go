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
	"github.com/smallbiznis/sambatan/internal/campaign/domain"
	campaignrepository "github.com/smallbiznis/sambatan/internal/campaign/repository"
	catalogdomain "github.com/smallbiznis/sambatan/internal/catalog/domain"
	catalogrepository "github.com/smallbiznis/sambatan/internal/catalog/repository"
	catalogservice "github.com/smallbiznis/sambatan/internal/catalog/service"
	"github.com/smallbiznis/sambatan/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	catalog  catalogdomain.Service
	audit    auditdomain.Service
	campaign domain.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Product{},
		&domain.Campaign{},
		&auditdomain.Entry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	logger := zap.NewNop()

	catalogSvc := catalogservice.NewService(catalogservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: fakeClock,
		Repo:  catalogrepository.Provide(),
	})
	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Repo:  auditrepository.Provide(),
	})
	campaignSvc := NewService(Params{
		DB:      db,
		Log:     logger,
		GenID:   node,
		Clock:   fakeClock,
		Repo:    campaignrepository.Provide(),
		Catalog: catalogSvc,
		Audit:   auditSvc,
	})

	return &fixture{
		db:       db,
		node:     node,
		clock:    fakeClock,
		catalog:  catalogSvc,
		audit:    auditSvc,
		campaign: campaignSvc,
	}
}

func (f *fixture) createProduct(t *testing.T, groupBuy bool) catalogdomain.Product {
	t.Helper()
	product, err := f.catalog.Create(context.Background(), catalogdomain.CreateProductRequest{
		Name:            "kopi gayo 1kg",
		GroupBuyEnabled: groupBuy,
	})
	require.NoError(t, err)
	return product
}

func TestCreateCampaign_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	product := f.createProduct(t, true)
	deadline := f.clock.Now().Add(72 * time.Hour)

	tests := []struct {
		name    string
		req     domain.CreateCampaignRequest
		wantErr error
	}{
		{
			name: "empty title",
			req: domain.CreateCampaignRequest{
				ProductID: product.ID.String(), Title: "  ",
				TotalSlots: 10, PricePerSlot: 50000, Deadline: deadline,
			},
			wantErr: domain.ErrInvalidTitle,
		},
		{
			name: "zero slots",
			req: domain.CreateCampaignRequest{
				ProductID: product.ID.String(), Title: "patungan kopi",
				TotalSlots: 0, PricePerSlot: 50000, Deadline: deadline,
			},
			wantErr: domain.ErrInvalidTotalSlots,
		},
		{
			name: "negative slots",
			req: domain.CreateCampaignRequest{
				ProductID: product.ID.String(), Title: "patungan kopi",
				TotalSlots: -3, PricePerSlot: 50000, Deadline: deadline,
			},
			wantErr: domain.ErrInvalidTotalSlots,
		},
		{
			name: "zero price",
			req: domain.CreateCampaignRequest{
				ProductID: product.ID.String(), Title: "patungan kopi",
				TotalSlots: 10, PricePerSlot: 0, Deadline: deadline,
			},
			wantErr: domain.ErrInvalidPricePerSlot,
		},
		{
			name: "deadline in the past",
			req: domain.CreateCampaignRequest{
				ProductID: product.ID.String(), Title: "patungan kopi",
				TotalSlots: 10, PricePerSlot: 50000, Deadline: f.clock.Now().Add(-time.Hour),
			},
			wantErr: domain.ErrInvalidDeadline,
		},
		{
			name: "deadline exactly now",
			req: domain.CreateCampaignRequest{
				ProductID: product.ID.String(), Title: "patungan kopi",
				TotalSlots: 10, PricePerSlot: 50000, Deadline: f.clock.Now(),
			},
			wantErr: domain.ErrInvalidDeadline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.campaign.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateCampaign_RequiresGroupBuyProduct(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	regular := f.createProduct(t, false)

	_, err := f.campaign.Create(ctx, domain.CreateCampaignRequest{
		ProductID:    regular.ID.String(),
		Title:        "patungan kopi",
		TotalSlots:   10,
		PricePerSlot: 50000,
		Deadline:     f.clock.Now().Add(72 * time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrProductNotGroupBuy)

	_, err = f.campaign.Create(ctx, domain.CreateCampaignRequest{
		ProductID:    f.node.Generate().String(),
		Title:        "patungan kopi",
		TotalSlots:   10,
		PricePerSlot: 50000,
		Deadline:     f.clock.Now().Add(72 * time.Hour),
	})
	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestCreateCampaign_Success(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	product := f.createProduct(t, true)
	deadline := f.clock.Now().Add(72 * time.Hour)

	created, err := f.campaign.Create(ctx, domain.CreateCampaignRequest{
		ProductID:    product.ID.String(),
		Title:        "  patungan kopi gayo  ",
		TotalSlots:   10,
		PricePerSlot: 50000,
		Deadline:     deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, "patungan kopi gayo", created.Title)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.Equal(t, 0, created.FilledSlots)
	assert.Equal(t, product.ID, created.ProductID)

	got, err := f.campaign.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	entries, err := f.audit.ListByCampaign(ctx, created.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, auditdomain.EventCampaignCreated, entries[0].Event)
}

func TestGetCampaign_NotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.campaign.GetByID(ctx, f.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)

	_, err = f.campaign.GetByID(ctx, "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func TestListCampaigns_FilterByStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	product := f.createProduct(t, true)
	deadline := f.clock.Now().Add(72 * time.Hour)

	for i := 0; i < 3; i++ {
		_, err := f.campaign.Create(ctx, domain.CreateCampaignRequest{
			ProductID:    product.ID.String(),
			Title:        "patungan kopi",
			TotalSlots:   10,
			PricePerSlot: 50000,
			Deadline:     deadline,
		})
		require.NoError(t, err)
	}

	active, err := f.campaign.List(ctx, domain.ListCampaignsRequest{Status: domain.StatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 3)

	completed, err := f.campaign.List(ctx, domain.ListCampaignsRequest{Status: domain.StatusCompleted})
	require.NoError(t, err)
	assert.Empty(t, completed)

	_, err = f.campaign.List(ctx, domain.ListCampaignsRequest{Status: "BOGUS"})
	assert.ErrorIs(t, err, domain.ErrInvalidCampaign)
}

func TestListCampaigns_NoLimitReturnsAll(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	now := f.clock.Now()
	for i := 0; i < 120; i++ {
		campaign := domain.Campaign{
			ID:           f.node.Generate(),
			ProductID:    f.node.Generate(),
			Title:        "patungan kopi",
			TotalSlots:   10,
			PricePerSlot: 50000,
			Deadline:     now.Add(72 * time.Hour),
			Status:       domain.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, f.db.Create(&campaign).Error)
	}

	all, err := f.campaign.List(ctx, domain.ListCampaignsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 120)

	page, err := f.campaign.List(ctx, domain.ListCampaignsRequest{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page, 5)
}
