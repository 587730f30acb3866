package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	usagedomain "github.com/simplegeohq/simplegeoapi/internal/usage/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) usagedomain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, records []*usagedomain.UsageRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *repo) Count(ctx context.Context, accountID snowflake.ID, from, to *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&usagedomain.UsageRecord{}).
		Where("account_id = ?", accountID)
	if from != nil {
		query = query.Where("timestamp >= ?", *from)
	}
	if to != nil {
		query = query.Where("timestamp < ?", *to)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) ListSince(ctx context.Context, accountID snowflake.ID, from time.Time) ([]usagedomain.UsageRecord, error) {
	var records []usagedomain.UsageRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND timestamp >= ?", accountID, from).
		Order("timestamp ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
