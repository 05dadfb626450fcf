package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustionReportsWait(t *testing.T) {
	bucket := NewTokenBucket(2, 1, time.Minute)

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)
	allowed, _ = bucket.Allow()
	assert.True(t, allowed)

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestRateLimiterKeysPerUserAndAction(t *testing.T) {
	rl := NewRateLimiter()

	// Exhaust anna's proposal budget.
	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("anna", "create_proposal")
		assert.True(t, allowed)
	}
	allowed, _ := rl.Allow("anna", "create_proposal")
	assert.False(t, allowed)

	// Other actions and other users are unaffected.
	allowed, _ = rl.Allow("anna", "cast_vote")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("bruno", "create_proposal")
	assert.True(t, allowed)
}

func TestCleanupDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter()

	rl.Allow("anna", "send_message")
	rl.buckets["anna:send_message"].lastRefill = time.Now().Add(-2 * time.Hour)

	rl.Cleanup()

	_, exists := rl.buckets["anna:send_message"]
	assert.False(t, exists)
}
