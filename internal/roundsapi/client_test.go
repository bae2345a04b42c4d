package roundsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, maxPages int) *Client {
	return NewClient(Config{BaseURL: url, PageSize: 2, MaxPages: maxPages})
}

func TestClient_FetchRoundsPaginates(t *testing.T) {
	pages := map[string]string{
		"0": `{"rounds":[{"id":"1","areWinnersReported":true},{"id":"2"}]}`,
		"1": `{"rounds":[{"id":"3","award":{"assetType":"ETH"}}]}`,
		"2": `{"rounds":[]}`,
	}

	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rounds", r.URL.Path)
		page := r.URL.Query().Get("currentPage")
		assert.Equal(t, "2", r.URL.Query().Get("pageSize"))
		requested = append(requested, page)

		body, ok := pages[page]
		require.True(t, ok, "unexpected page %s", page)
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)

	rounds, err := client.FetchRounds(context.Background())
	require.NoError(t, err)

	require.Len(t, rounds, 3)
	assert.Equal(t, "1", rounds[0].ID)
	assert.Equal(t, "2", rounds[1].ID)
	assert.Equal(t, "3", rounds[2].ID)
	assert.True(t, rounds[0].AreWinnersReported)
	assert.Equal(t, "ETH", rounds[2].Award.AssetType)
	assert.Equal(t, []string{"0", "1", "2"}, requested)
}

func TestClient_FetchRoundsStopsAtPageCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rounds":[{"id":"x"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)

	rounds, err := client.FetchRounds(context.Background())
	require.NoError(t, err)

	// pages 0..3 inclusive, one round each
	assert.Len(t, rounds, 4)
}

func TestClient_FetchRoundsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)

	_, err := client.FetchRounds(context.Background())
	require.Error(t, err)
}

func TestClient_FetchWinners(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rounds/42/winners", r.URL.Path)
		fmt.Fprint(w, `{"winners":[{"fid":7,"amount":"1.5"},{"fid":8,"amount":2},{"fid":9,"amount":"bogus"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)

	winners, err := client.FetchWinners(context.Background(), "42")
	require.NoError(t, err)

	require.Len(t, winners, 3)
	assert.Equal(t, Winner{Fid: 7, Amount: 1.5}, winners[0])
	assert.Equal(t, Winner{Fid: 8, Amount: 2}, winners[1])
	// unparsable amounts coerce to zero instead of failing the fetch
	assert.Equal(t, Winner{Fid: 9, Amount: 0}, winners[2])
}

func TestClient_FetchWinnersKeepsUpstreamFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"winners":[{"fid":7,"amount":"1.5","rank":1,"walletAddress":"0xabc"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)

	winners, err := client.FetchWinners(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, winners, 1)

	w := winners[0]
	assert.Equal(t, int64(7), w.Fid)
	assert.Equal(t, Amount(1.5), w.Amount)
	assert.JSONEq(t, `1`, string(w.Extra["rank"]))
	assert.JSONEq(t, `"0xabc"`, string(w.Extra["walletAddress"]))

	// the typed fields are not duplicated into the passthrough set
	_, ok := w.Extra["fid"]
	assert.False(t, ok)
	_, ok = w.Extra["amount"]
	assert.False(t, ok)
}

func TestClient_FetchWinnersError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)

	_, err := client.FetchWinners(context.Background(), "missing")
	require.Error(t, err)
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `3.25`, 3.25},
		{"string number", `"3.25"`, 3.25},
		{"integer string", `"10"`, 10},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"garbage", `"1.5 ETH"`, 0},
		{"nan string", `"NaN"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, a.UnmarshalJSON([]byte(tt.in)))
			assert.Equal(t, tt.want, float64(a))
		})
	}
}
