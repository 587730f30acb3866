package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/simplegeohq/simplegeoapi/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) accountdomain.Repository {
	return &repo{db: db}
}

func (r *repo) InsertAccount(ctx context.Context, account *accountdomain.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repo) FindAccountByID(ctx context.Context, id snowflake.ID) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *repo) FindAccountByKeyHash(ctx context.Context, keyHash string) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := r.db.WithContext(ctx).
		Where("api_key_hash = ?", keyHash).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *repo) InsertSubscription(ctx context.Context, sub *accountdomain.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *repo) FindActiveSubscription(ctx context.Context, accountID snowflake.ID) (*accountdomain.Subscription, error) {
	var sub accountdomain.Subscription
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND status IN ?", accountID, []accountdomain.SubscriptionStatus{
			accountdomain.SubscriptionStatusActive,
			accountdomain.SubscriptionStatusTrialing,
		}).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repo) UpdateSubscriptionPlan(ctx context.Context, accountID snowflake.ID, planName string) error {
	return r.db.WithContext(ctx).
		Model(&accountdomain.Subscription{}).
		Where("account_id = ?", accountID).
		Update("plan", planName).Error
}
