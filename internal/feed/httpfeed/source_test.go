package httpfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	src, err := New(Config{Endpoint: srv.URL + "/setups/{symbol}"})
	require.NoError(t, err)
	return src
}

func TestCoerceCandidateArrayJSON(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare array", raw: `[{"id":"a"}]`, want: `[{"id":"a"}]`},
		{name: "setups wrapper", raw: `{"setups":[{"id":"a"}]}`, want: `[{"id":"a"}]`},
		{name: "candidates wrapper", raw: `{"candidates":[]}`, want: `[]`},
		{name: "single object", raw: `{"id":"a","side":"long"}`, want: `[{"id":"a","side":"long"}]`},
		{name: "single object via key", raw: `{"key":"a"}`, want: `[{"key":"a"}]`},
		{name: "empty", raw: "", wantErr: true},
		{name: "invalid json", raw: `{"id":`, wantErr: true},
		{name: "object without id", raw: `{"foo":1}`, wantErr: true},
		{name: "setups not array", raw: `{"setups":{"id":"a"}}`, wantErr: true},
		{name: "scalar root", raw: `42`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CoerceCandidateArrayJSON(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, got)
		})
	}
}

func TestCandidatesDecodesWrappedPayload(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/setups/BTCUSDT", r.URL.Path)
		w.Write([]byte(`{"setups":[
			{"id":"btc-1","side":"long","type":"pullback","entry":{"low":95,"high":105},"stop":90},
			{"id":"btc-2","side":"short","stop":"55","entry":{"low":45,"high":55}}
		]}`))
	})

	got, err := src.Candidates(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "btc-1", got[0].Key())
	assert.Equal(t, "short", got[1].NormalizedSide())
	assert.Equal(t, 55.0, got[1].Stop)
}

func TestCandidatesSkipsInvalidElements(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"side":"long"},
			{"id":""},
			{"id":"ok","side":"long"},
			"garbage"
		]`))
	})

	got, err := src.Candidates(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Key())
}

func TestCandidatesErrorStatus(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := src.Candidates(context.Background(), "BTCUSDT")
	assert.Error(t, err)
}

func TestCandidatesRequiresSymbol(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := src.Candidates(context.Background(), "  ")
	assert.Error(t, err)
}
