package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	geocodedomain "github.com/simplegeohq/simplegeoapi/internal/geocode/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&geocodedomain.GeocodeEntry{}))
	return conn
}

func TestUpsertIfAbsentIdempotent(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	repo := New(conn)
	ctx := context.Background()

	hash := geocodedomain.Fingerprint("1600 amphitheatre parkway")

	first, err := repo.UpsertIfAbsent(ctx, &geocodedomain.GeocodeEntry{
		ID:          node.Generate(),
		AddressHash: hash,
		Address:     "1600 amphitheatre parkway",
		Latitude:    37.422,
		Longitude:   -122.084,
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	// A second writer racing on the same fingerprint must observe the first
	// writer's row, not duplicate or fail.
	second, err := repo.UpsertIfAbsent(ctx, &geocodedomain.GeocodeEntry{
		ID:          node.Generate(),
		AddressHash: hash,
		Address:     "1600 amphitheatre parkway",
		Latitude:    99,
		Longitude:   99,
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Latitude, second.Latitude)

	var count int64
	require.NoError(t, conn.Model(&geocodedomain.GeocodeEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindByFingerprintMissReturnsNil(t *testing.T) {
	conn := newTestDB(t)
	repo := New(conn)

	entry, err := repo.FindByFingerprint(context.Background(), "no-such-hash")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestFindByCoordinates(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	repo := New(conn)
	ctx := context.Background()

	stored, err := repo.UpsertIfAbsent(ctx, &geocodedomain.GeocodeEntry{
		ID:          node.Generate(),
		AddressHash: geocodedomain.Fingerprint("1 infinite loop"),
		Address:     "1 infinite loop",
		Latitude:    37.33182,
		Longitude:   -122.03118,
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	found, err := repo.FindByCoordinates(ctx, 37.33182, -122.03118)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, stored.ID, found.ID)

	// Lookup is exact equality, so a nearby point misses.
	miss, err := repo.FindByCoordinates(ctx, 37.3318, -122.0311)
	require.NoError(t, err)
	assert.Nil(t, miss)
}
