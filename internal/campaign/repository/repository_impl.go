package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sambatan/internal/campaign/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, campaign *domain.Campaign) error {
	return db.WithContext(ctx).Create(campaign).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := db.WithContext(ctx).Where("id = ?", id).First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	stmt := db.WithContext(ctx).Model(&domain.Campaign{})

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	if err := stmt.Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *repo) ListDue(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	stmt := db.WithContext(ctx).
		Where("status = ? OR (status = ? AND deadline < ?)",
			domain.StatusFull, domain.StatusActive, now).
		Order("created_at asc, id asc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Reserve is the single point where slots are claimed. The conditional
// UPDATE carries the capacity invariant so concurrent joins can never
// oversell regardless of isolation level.
func (r *repo) Reserve(ctx context.Context, db *gorm.DB, id snowflake.ID, quantity int, now time.Time) (*domain.ReserveOutcome, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE campaigns
		 SET filled_slots = filled_slots + ?,
		     status = CASE WHEN filled_slots + ? >= total_slots THEN ? ELSE status END,
		     updated_at = ?
		 WHERE id = ?
		   AND status = ?
		   AND filled_slots + ? <= total_slots`,
		quantity, quantity, domain.StatusFull, now,
		id, domain.StatusActive, quantity,
	)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var campaign domain.Campaign
	if err := db.WithContext(ctx).Select("filled_slots", "status").
		Where("id = ?", id).First(&campaign).Error; err != nil {
		return nil, err
	}
	return &domain.ReserveOutcome{
		FilledSlots: campaign.FilledSlots,
		BecameFull:  campaign.Status == domain.StatusFull,
	}, nil
}

func (r *repo) Release(ctx context.Context, db *gorm.DB, id snowflake.ID, quantity int, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE campaigns
		 SET filled_slots = CASE WHEN filled_slots - ? < 0 THEN 0 ELSE filled_slots - ? END,
		     updated_at = ?
		 WHERE id = ? AND status IN (?, ?)`,
		quantity, quantity, now,
		id, domain.StatusActive, domain.StatusFull,
	).Error
}

func (r *repo) MarkCompleted(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE campaigns SET status = ?, updated_at = ?
		 WHERE id = ? AND status IN (?, ?)`,
		domain.StatusCompleted, now,
		id, domain.StatusActive, domain.StatusFull,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE campaigns SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusFailed, now,
		id, domain.StatusActive,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
