package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sambatan/internal/participant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, participant *domain.Participant) error {
	return db.WithContext(ctx).Create(participant).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Participant, error) {
	var participant domain.Participant
	err := db.WithContext(ctx).Where("id = ?", id).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &participant, nil
}

func (r *repo) ListByCampaign(ctx context.Context, db *gorm.DB, campaignID snowflake.ID) ([]domain.Participant, error) {
	var participants []domain.Participant
	err := db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at asc, id asc").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *repo) Transition(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to domain.ParticipationStatus, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE participants SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		to, now, id, from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) TransitionByCampaign(ctx context.Context, db *gorm.DB, campaignID snowflake.ID, from, to domain.ParticipationStatus, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE participants SET status = ?, updated_at = ?
		 WHERE campaign_id = ? AND status = ?`,
		to, now, campaignID, from,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
