package analytics

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVelocity(t *testing.T) {
	require.Equal(t, 0.0, Velocity(0))
	require.Equal(t, 1.0, Velocity(7))
	require.Equal(t, 2.0, Velocity(14))
	require.InDelta(t, 2.142857, Velocity(15), 1e-6)
}

func TestTrending(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	p := DefaultPolicy()
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name       string
		velocity   float64
		lastSaleAt *time.Time
		want       bool
	}{
		{name: "fast and recent", velocity: Velocity(15), lastSaleAt: at(3 * 24 * time.Hour), want: true},
		{name: "exactly threshold is not trending", velocity: Velocity(14), lastSaleAt: at(3 * 24 * time.Hour), want: false},
		{name: "slow and recent", velocity: 1, lastSaleAt: at(time.Hour), want: false},
		{name: "fast but stale", velocity: 5, lastSaleAt: at(8 * 24 * time.Hour), want: false},
		{name: "fast on recency boundary", velocity: 5, lastSaleAt: at(7 * 24 * time.Hour), want: true},
		{name: "never sold", velocity: 5, lastSaleAt: nil, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Trending(tc.velocity, tc.lastSaleAt, now, p))
		})
	}
}

func TestTrendingAtSale(t *testing.T) {
	p := DefaultPolicy()
	assert.False(t, TrendingAtSale(Velocity(7), p))
	assert.False(t, TrendingAtSale(Velocity(14), p))
	assert.True(t, TrendingAtSale(Velocity(15), p))
}

func TestDerive_ChangedDetectsDrift(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-3 * 24 * time.Hour)
	c := ProductCounters{SalesLast7Days: 15, LastSaleAt: &last}

	d := Derive(c, now, DefaultPolicy())
	require.True(t, d.Trending)
	require.True(t, d.Changed(c))

	c.SalesVelocity = d.SalesVelocity
	c.Trending = d.Trending
	require.False(t, d.Changed(c))
}

func TestLaterOf(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	assert.Equal(t, late, LaterOf(nil, late))
	assert.Equal(t, late, LaterOf(&early, late))
	assert.Equal(t, late, LaterOf(&late, early))
}

func TestProperty_DerivedSignals(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	p := DefaultPolicy()

	properties.Property("velocity is salesLast7Days / 7", prop.ForAll(
		func(w7 int64) bool {
			return Velocity(w7) == float64(w7)/7
		},
		gen.Int64Range(0, 1_000_000),
	))

	properties.Property("velocity at or below threshold never trends", prop.ForAll(
		func(w7 int64, ageHours int64) bool {
			last := now.Add(-time.Duration(ageHours) * time.Hour)
			d := Derive(ProductCounters{SalesLast7Days: w7, LastSaleAt: &last}, now, p)
			return !d.Trending
		},
		gen.Int64Range(0, 14),
		gen.Int64Range(0, 24*30),
	))

	properties.Property("trending iff fast and recent", prop.ForAll(
		func(w7 int64, ageHours int64) bool {
			last := now.Add(-time.Duration(ageHours) * time.Hour)
			d := Derive(ProductCounters{SalesLast7Days: w7, LastSaleAt: &last}, now, p)
			want := d.SalesVelocity > 2 && time.Duration(ageHours)*time.Hour <= 7*24*time.Hour
			return d.Trending == want
		},
		gen.Int64Range(0, 500),
		gen.Int64Range(0, 24*30),
	))

	properties.TestingRun(t)
}
