package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitsFor(t *testing.T) {
	tests := []struct {
		name    string
		plan    string
		status  string
		monthly int64
		daily   int64
	}{
		{"free", Free, "active", 1000, 10},
		{"pro", Pro, "active", 50000, 1000},
		{"premium", Premium, "active", 250000, 0},
		{"trialing pro keeps pro daily cap", Pro, "trialing", 1000, 1000},
		{"unknown falls back to free", "enterprise", "active", 1000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := LimitsFor(tt.plan, tt.status)
			assert.Equal(t, tt.monthly, limits.Monthly)
			assert.Equal(t, tt.daily, limits.Daily)
		})
	}
}

func TestAllowsBatch(t *testing.T) {
	assert.False(t, AllowsBatch(Free))
	assert.True(t, AllowsBatch(Pro))
	assert.True(t, AllowsBatch(Premium))
	assert.False(t, AllowsBatch("unknown"))
}
