// Package plan defines the static request ceilings for each subscription tier.
package plan

const (
	Free    = "free"
	Pro     = "pro"
	Premium = "premium"
)

// Limits holds the request ceilings for one tier. Daily == 0 means the tier
// has no daily sub-limit.
type Limits struct {
	Monthly int64
	Daily   int64
}

var monthlyLimits = map[string]int64{
	"trialing": 1000,
	Free:       1000,
	Pro:        50000,
	Premium:    250000,
}

var dailyLimits = map[string]int64{
	Free: 10,
	Pro:  1000,
}

// LimitsFor resolves the ceilings for a plan and subscription status. Trialing
// subscriptions get the trial ceiling regardless of plan; unknown plans fall
// back to the free tier.
func LimitsFor(planName, status string) Limits {
	if _, known := monthlyLimits[planName]; !known {
		planName = Free
	}

	monthlyKey := planName
	if status == "trialing" {
		monthlyKey = "trialing"
	}

	return Limits{
		Monthly: monthlyLimits[monthlyKey],
		Daily:   dailyLimits[planName],
	}
}

// AllowsBatch reports whether the tier may call batch and POI endpoints.
func AllowsBatch(planName string) bool {
	return planName == Pro || planName == Premium
}
