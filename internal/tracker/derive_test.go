package tracker

import (
	"math"
	"testing"

	"traq/internal/setup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseCandidate() setup.Candidate {
	return setup.Candidate{
		ID:          "btc-1",
		Side:        "long",
		Type:        "pullback",
		Timeframe:   "1h",
		Entry:       setup.Zone{Low: 95, High: 105},
		Stop:        90,
		TakeProfits: []float64{120, 140},
		Status:      setup.StatusForming,
	}
}

func TestDerive(t *testing.T) {
	now := int64(1_700_000_000_000)

	t.Run("valid long", func(t *testing.T) {
		rec, ok := Derive("BTCUSDT", baseCandidate(), now)
		require.True(t, ok)
		assert.Equal(t, "btc-1", rec.Key)
		assert.Equal(t, "BTCUSDT", rec.Symbol)
		assert.Equal(t, setup.SideLong, rec.Side)
		assert.Equal(t, 100.0, rec.EntryAnchor)
		assert.Equal(t, 90.0, rec.Stop)
		assert.Equal(t, 10.0, rec.Risk)
		assert.Equal(t, 120.0, rec.TP1)
		assert.Equal(t, 100.0, rec.HighSeen)
		assert.Equal(t, 100.0, rec.LowSeen)
		assert.Zero(t, rec.MFER)
		assert.Zero(t, rec.MAER)
		assert.Equal(t, OutcomeOpen, rec.Outcome)
		assert.Equal(t, now, rec.CreatedTS)
		assert.Equal(t, now, rec.LastSeenTS)
		assert.Zero(t, rec.TriggeredTS)
	})

	t.Run("missing key is untrackable", func(t *testing.T) {
		c := baseCandidate()
		c.ID = "   "
		_, ok := Derive("BTCUSDT", c, now)
		assert.False(t, ok)
	})

	t.Run("degenerate zone rejected", func(t *testing.T) {
		for name, zone := range map[string]setup.Zone{
			"equal bounds": {Low: 100, High: 100},
			"inverted":     {Low: 105, High: 95},
			"missing":      {},
			"nan low":      {Low: math.NaN(), High: 100},
		} {
			c := baseCandidate()
			c.Entry = zone
			_, ok := Derive("BTCUSDT", c, now)
			assert.False(t, ok, name)
		}
	})

	t.Run("missing or non-finite stop rejected", func(t *testing.T) {
		for name, stop := range map[string]float64{
			"zero": 0,
			"nan":  math.NaN(),
			"inf":  math.Inf(1),
		} {
			c := baseCandidate()
			c.Stop = stop
			_, ok := Derive("BTCUSDT", c, now)
			assert.False(t, ok, name)
		}
	})

	t.Run("zero risk rejected", func(t *testing.T) {
		c := baseCandidate()
		c.Stop = 100 // equals the zone midpoint
		_, ok := Derive("BTCUSDT", c, now)
		assert.False(t, ok)
	})

	t.Run("tp1 optional", func(t *testing.T) {
		c := baseCandidate()
		c.TakeProfits = nil
		rec, ok := Derive("BTCUSDT", c, now)
		require.True(t, ok)
		assert.Zero(t, rec.TP1)
	})

	t.Run("side defaults to long", func(t *testing.T) {
		c := baseCandidate()
		c.Side = "sideways"
		rec, ok := Derive("BTCUSDT", c, now)
		require.True(t, ok)
		assert.Equal(t, setup.SideLong, rec.Side)
	})

	t.Run("triggered at creation records timestamp", func(t *testing.T) {
		c := baseCandidate()
		c.Status = setup.StatusTriggered
		rec, ok := Derive("BTCUSDT", c, now)
		require.True(t, ok)
		assert.Equal(t, now, rec.TriggeredTS)
	})
}
