package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromProvider(t *testing.T) {
	cases := map[string]SubscriptionStatus{
		"trialing":           StatusTrial,
		"active":             StatusActive,
		"past_due":           StatusPastDue,
		"canceled":           StatusCanceled,
		"incomplete":         StatusCanceled,
		"incomplete_expired": StatusCanceled,
		"unpaid":             StatusCanceled,
		"":                   StatusCanceled,
	}

	for providerStatus, want := range cases {
		assert.Equal(t, want, StatusFromProvider(providerStatus), "provider status %q", providerStatus)
	}
}

func TestCanTransitionTo(t *testing.T) {
	t.Run("pending only moves to trial", func(t *testing.T) {
		assert.True(t, StatusPending.CanTransitionTo(StatusTrial))
		assert.False(t, StatusPending.CanTransitionTo(StatusActive))
		assert.False(t, StatusPending.CanTransitionTo(StatusPastDue))
		assert.False(t, StatusPending.CanTransitionTo(StatusCanceled))
	})

	t.Run("linked statuses can fall back to pending via unlink", func(t *testing.T) {
		for _, s := range []SubscriptionStatus{StatusTrial, StatusActive, StatusPastDue, StatusCanceled} {
			assert.True(t, s.CanTransitionTo(StatusPending), "from %s", s)
		}
	})

	t.Run("self transition is legal for linked statuses", func(t *testing.T) {
		for _, s := range []SubscriptionStatus{StatusTrial, StatusActive, StatusPastDue, StatusCanceled} {
			assert.True(t, s.CanTransitionTo(s), "from %s", s)
		}
	})

	t.Run("past_due recovers to active", func(t *testing.T) {
		assert.True(t, StatusPastDue.CanTransitionTo(StatusActive))
	})
}

func TestTagsValueAndScan(t *testing.T) {
	t.Run("empty tags encode as empty array", func(t *testing.T) {
		v, err := Tags{}.Value()
		assert.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("round trip", func(t *testing.T) {
		v, err := Tags{"vip", TagExcludeFromStats}.Value()
		assert.NoError(t, err)

		var got Tags
		assert.NoError(t, got.Scan(v))
		assert.Equal(t, Tags{"vip", TagExcludeFromStats}, got)
	})

	t.Run("scan of nil yields empty set", func(t *testing.T) {
		var got Tags
		assert.NoError(t, got.Scan(nil))
		assert.Empty(t, got)
	})

	t.Run("scan of bytes", func(t *testing.T) {
		var got Tags
		assert.NoError(t, got.Scan([]byte(`["internal"]`)))
		assert.Equal(t, Tags{"internal"}, got)
	})
}

func TestOrganizationLinked(t *testing.T) {
	org := &Organization{}
	assert.False(t, org.Linked())

	customerID := "cus_123"
	org.StripeCustomerID = &customerID
	assert.False(t, org.Linked(), "customer alone is not a linkage")

	subscriptionID := "sub_456"
	org.StripeSubscriptionID = &subscriptionID
	assert.True(t, org.Linked())

	empty := ""
	org.StripeSubscriptionID = &empty
	assert.False(t, org.Linked())
}

func TestExcludedFromStats(t *testing.T) {
	org := &Organization{Tags: Tags{"internal"}}
	assert.False(t, org.ExcludedFromStats())

	org.Tags = append(org.Tags, TagExcludeFromStats)
	assert.True(t, org.ExcludedFromStats())
}
