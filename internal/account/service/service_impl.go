package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/simplegeohq/simplegeoapi/internal/account/domain"
	"github.com/simplegeohq/simplegeoapi/internal/cache"
	"github.com/simplegeohq/simplegeoapi/internal/clock"
	"github.com/simplegeohq/simplegeoapi/internal/plan"
	"github.com/simplegeohq/simplegeoapi/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	apiKeyPrefix      = "sg_live_"
	apiKeySecretBytes = 32
	resolvedTTL       = 30 * time.Second
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  accountdomain.Repository
	Clock clock.Clock
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     accountdomain.Repository
	clock    clock.Clock
	resolved cache.Cache[string, accountdomain.Resolved]
}

func New(p Params) accountdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("account.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		resolved: cache.NewTTLCache[string, accountdomain.Resolved](),
	}
}

func (s *Service) Register(ctx context.Context, req accountdomain.RegisterRequest) (*accountdomain.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, accountdomain.ErrInvalidEmail
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, accountdomain.ErrInvalidName
	}

	rawKey, err := generateAPIKey()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	periodStart := now
	periodEnd := periodStart.AddDate(0, 1, 0)

	account := &accountdomain.Account{
		ID:         s.genID.Generate(),
		Email:      email,
		Name:       name,
		Role:       "user",
		APIKeyHash: accountdomain.HashAPIKey(rawKey),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	sub := &accountdomain.Subscription{
		ID:                 s.genID.Generate(),
		AccountID:          account.ID,
		Plan:               plan.Free,
		Status:             accountdomain.SubscriptionStatusActive,
		CurrentPeriodStart: &periodStart,
		CurrentPeriodEnd:   &periodEnd,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		return tx.Create(sub).Error
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, accountdomain.ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("plan", sub.Plan),
	)

	return &accountdomain.RegisterResponse{
		AccountID: account.ID.String(),
		Email:     account.Email,
		Plan:      sub.Plan,
		APIKey:    rawKey,
	}, nil
}

func (s *Service) ResolveByAPIKey(ctx context.Context, rawKey string) (*accountdomain.Resolved, error) {
	rawKey = strings.TrimSpace(rawKey)
	if rawKey == "" {
		return nil, accountdomain.ErrInvalidAPIKey
	}

	hash := accountdomain.HashAPIKey(rawKey)
	if cached, ok := s.resolved.Get(hash); ok {
		return &cached, nil
	}

	account, err := s.repo.FindAccountByKeyHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if account == nil || subtle.ConstantTimeCompare([]byte(account.APIKeyHash), []byte(hash)) != 1 {
		return nil, accountdomain.ErrInvalidAPIKey
	}

	sub, err := s.repo.FindActiveSubscription(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	resolved := accountdomain.Resolved{Account: *account, Subscription: sub}
	s.resolved.Set(hash, resolved, resolvedTTL)
	return &resolved, nil
}

func (s *Service) ChangePlan(ctx context.Context, req accountdomain.ChangePlanRequest) error {
	accountID, err := snowflake.ParseString(strings.TrimSpace(req.AccountID))
	if err != nil {
		return accountdomain.ErrNotFound
	}

	planName := strings.TrimSpace(req.Plan)
	switch planName {
	case plan.Free, plan.Pro, plan.Premium:
	default:
		return accountdomain.ErrInvalidPlan
	}

	sub, err := s.repo.FindActiveSubscription(ctx, accountID)
	if err != nil {
		return err
	}
	if sub == nil {
		return accountdomain.ErrNoSubscription
	}

	if err := s.repo.UpdateSubscriptionPlan(ctx, accountID, planName); err != nil {
		return err
	}

	// Drop the cached key resolution so the new plan takes effect on the
	// next request instead of after the TTL.
	if account, err := s.repo.FindAccountByID(ctx, accountID); err == nil && account != nil {
		s.resolved.Delete(account.APIKeyHash)
	}
	return nil
}

func (s *Service) ActiveSubscription(ctx context.Context, accountID string) (*accountdomain.Subscription, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(accountID))
	if err != nil {
		return nil, accountdomain.ErrNotFound
	}
	return s.repo.FindActiveSubscription(ctx, id)
}

func generateAPIKey() (string, error) {
	buf := make([]byte, apiKeySecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return apiKeyPrefix + hex.EncodeToString(buf), nil
}
