package service

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	accountdomain "github.com/simplegeohq/simplegeoapi/internal/account/domain"
	accountrepo "github.com/simplegeohq/simplegeoapi/internal/account/repository"
	"github.com/simplegeohq/simplegeoapi/internal/clock"
	"github.com/simplegeohq/simplegeoapi/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) accountdomain.Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&accountdomain.Account{}, &accountdomain.Subscription{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  accountrepo.New(conn),
		Clock: clock.NewSystemClock(),
	})
}

func TestRegisterCreatesFreeAccount(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Register(context.Background(), accountdomain.RegisterRequest{
		Email: " Dev@Example.COM ",
		Name:  "Dev Account",
	})
	require.NoError(t, err)

	assert.Equal(t, "dev@example.com", resp.Email)
	assert.Equal(t, plan.Free, resp.Plan)
	assert.True(t, strings.HasPrefix(resp.APIKey, "sg_live_"))
	assert.NotEmpty(t, resp.AccountID)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, accountdomain.RegisterRequest{Email: "not-an-email", Name: "x"})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidEmail)

	_, err = svc.Register(ctx, accountdomain.RegisterRequest{Email: "a@b.com", Name: "  "})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidName)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, accountdomain.RegisterRequest{Email: "dup@example.com", Name: "First"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, accountdomain.RegisterRequest{Email: "dup@example.com", Name: "Second"})
	assert.ErrorIs(t, err, accountdomain.ErrEmailExists)
}

func TestResolveByAPIKey(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, accountdomain.RegisterRequest{Email: "key@example.com", Name: "Key"})
	require.NoError(t, err)

	resolved, err := svc.ResolveByAPIKey(ctx, resp.APIKey)
	require.NoError(t, err)
	assert.Equal(t, "key@example.com", resolved.Account.Email)
	require.NotNil(t, resolved.Subscription)
	assert.Equal(t, plan.Free, resolved.Subscription.Plan)
	assert.NotNil(t, resolved.Subscription.CurrentPeriodStart)
	assert.NotNil(t, resolved.Subscription.CurrentPeriodEnd)
}

func TestResolveByAPIKeyRejectsUnknownKey(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.ResolveByAPIKey(ctx, "sg_live_deadbeef")
	assert.ErrorIs(t, err, accountdomain.ErrInvalidAPIKey)

	_, err = svc.ResolveByAPIKey(ctx, "")
	assert.ErrorIs(t, err, accountdomain.ErrInvalidAPIKey)
}

func TestChangePlan(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, accountdomain.RegisterRequest{Email: "up@example.com", Name: "Upgrader"})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePlan(ctx, accountdomain.ChangePlanRequest{
		AccountID: resp.AccountID,
		Plan:      plan.Pro,
	}))

	err = svc.ChangePlan(ctx, accountdomain.ChangePlanRequest{
		AccountID: resp.AccountID,
		Plan:      "platinum",
	})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidPlan)

	sub, err := svc.ActiveSubscription(ctx, resp.AccountID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, plan.Pro, sub.Plan)
}

func TestActiveSubscriptionUnknownAccount(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActiveSubscription(context.Background(), "not-a-snowflake")
	assert.ErrorIs(t, err, accountdomain.ErrNotFound)
}
