package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	blob, err := s.Load(ctx, "ledger")
	require.NoError(t, err)
	assert.Nil(t, blob)

	require.NoError(t, s.Save(ctx, "ledger", []byte(`{"version":1}`)))
	require.NoError(t, s.Save(ctx, "ledger", []byte(`{"version":1,"updated_ts":2}`)))

	blob, err = s.Load(ctx, "ledger")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":1,"updated_ts":2}`), blob, "save upserts in place")

	require.NoError(t, s.Delete(ctx, "ledger"))
	blob, err = s.Load(ctx, "ledger")
	require.NoError(t, err)
	assert.Nil(t, blob)
}
