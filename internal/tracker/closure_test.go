package tracker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosureStopLong(t *testing.T) {
	r := openLong() // stop=90
	EvaluateClosure(r, 88, 2000)
	assert.Equal(t, OutcomeStop, r.Outcome)
	assert.Equal(t, int64(2000), r.ClosedTS)
}

func TestClosureStopEquality(t *testing.T) {
	r := openLong()
	EvaluateClosure(r, 90, 2000) // mid == stop closes
	assert.Equal(t, OutcomeStop, r.Outcome)
}

func TestClosureTP1(t *testing.T) {
	t.Run("long", func(t *testing.T) {
		r := openLong() // tp1=120
		EvaluateClosure(r, 119.9, 2000)
		require.Equal(t, OutcomeOpen, r.Outcome)
		EvaluateClosure(r, 120, 3000)
		assert.Equal(t, OutcomeTP1, r.Outcome)
		assert.Equal(t, int64(3000), r.ClosedTS)
	})
	t.Run("short", func(t *testing.T) {
		r := openShort() // tp1=40
		EvaluateClosure(r, 41, 2000)
		require.Equal(t, OutcomeOpen, r.Outcome)
		EvaluateClosure(r, 40, 3000)
		assert.Equal(t, OutcomeTP1, r.Outcome)
	})
}

func TestClosureStopBeatsTarget(t *testing.T) {
	// 构造一个 stop 与 tp1 同时满足的畸形行情，必须判 STOP。
	r := openShort() // stop=55 tp1=40
	r.TP1 = 60       // tp1 above stop: any mid >= 55 satisfies both paths
	EvaluateClosure(r, 57, 2000)
	assert.Equal(t, OutcomeStop, r.Outcome)
}

func TestClosureNoTP1DisablesTarget(t *testing.T) {
	r := openLong()
	r.TP1 = 0
	EvaluateClosure(r, 500, 2000)
	assert.Equal(t, OutcomeOpen, r.Outcome)
}

func TestClosureExpiry(t *testing.T) {
	r := openLong()
	r.ExpiresTS = 5000

	EvaluateClosure(r, 100, 5000) // now == expiry is not yet expired
	require.Equal(t, OutcomeOpen, r.Outcome)

	EvaluateClosure(r, 100, 5001)
	assert.Equal(t, OutcomeExpired, r.Outcome)
	assert.Equal(t, int64(5001), r.ClosedTS)
}

func TestClosureExpiryWithNonFiniteMid(t *testing.T) {
	// 价格检查因 mid 非有限而跳过，过期检查仍然生效。
	r := openLong()
	r.ExpiresTS = 5000
	EvaluateClosure(r, math.NaN(), 6000)
	assert.Equal(t, OutcomeExpired, r.Outcome)
}

func TestClosureOneWay(t *testing.T) {
	r := openLong()
	UpdateExcursion(r, 115)
	EvaluateClosure(r, 88, 2000)
	require.Equal(t, OutcomeStop, r.Outcome)
	before := *r

	EvaluateClosure(r, 120, 9000)
	EvaluateClosure(r, 80, 9001)
	UpdateExcursion(r, 80)
	assert.Equal(t, before, *r, "outcome, closed_ts and excursions frozen after close")
}
