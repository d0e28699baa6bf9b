package tracker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDoc(open, closed int) Document {
	doc := NewDocument()
	for i := 0; i < open; i++ {
		doc.Items = append(doc.Items, Record{
			Key:     fmt.Sprintf("open-%d", i),
			Outcome: OutcomeOpen,
		})
	}
	for i := 0; i < closed; i++ {
		doc.Items = append(doc.Items, Record{
			Key:      fmt.Sprintf("closed-%d", i),
			Outcome:  OutcomeStop,
			ClosedTS: int64(1000 + i), // later index closed later
		})
	}
	return doc
}

func TestPruneUnderCapUnchanged(t *testing.T) {
	doc := makeDoc(5, 10)
	out := Prune(doc, 400)
	assert.Len(t, out.Items, 15)
}

func TestPruneDropsOldestClosed(t *testing.T) {
	// 401 条记录，5 条 OPEN，cap=400：保留 5 open + 395 最近关闭。
	doc := makeDoc(5, 396)
	out := Prune(doc, 400)
	require.Len(t, out.Items, 400)

	open, closed := 0, 0
	dropped := false
	for _, r := range out.Items {
		if r.IsOpen() {
			open++
			continue
		}
		closed++
		if r.Key == "closed-0" { // oldest closed
			dropped = true
		}
	}
	assert.Equal(t, 5, open)
	assert.Equal(t, 395, closed)
	assert.False(t, dropped, "oldest-closed record must be the one evicted")
}

func TestPruneNeverEvictsOpen(t *testing.T) {
	doc := makeDoc(450, 50)
	out := Prune(doc, 400)
	require.Len(t, out.Items, 450, "open records survive even beyond the cap")
	for _, r := range out.Items {
		assert.True(t, r.IsOpen())
	}
}

func TestPruneSurvivorCount(t *testing.T) {
	// min(M, cap-N) 条非 OPEN 存活。
	cases := []struct {
		open, closed, cap, wantClosed int
	}{
		{10, 100, 50, 40},
		{10, 20, 50, 20},
		{50, 100, 50, 0},
	}
	for _, tc := range cases {
		out := Prune(makeDoc(tc.open, tc.closed), tc.cap)
		closed := 0
		for _, r := range out.Items {
			if !r.IsOpen() {
				closed++
			}
		}
		assert.Equal(t, tc.wantClosed, closed)
	}
}

func TestPruneMissingClosedTSEvictedFirst(t *testing.T) {
	doc := makeDoc(0, 3)
	doc.Items = append(doc.Items, Record{Key: "dirty", Outcome: OutcomeStop}) // no closed_ts
	out := Prune(doc, 3)
	for _, r := range out.Items {
		assert.NotEqual(t, "dirty", r.Key)
	}
}
