package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"synth/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFeed(t *testing.T) {
	now := time.Unix(1700000000, 0)
	feed := NewMockFeed(number.Decimal("200000000000")).WithClock(func() time.Time { return now })

	round, err := feed.LatestRoundData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", round.RoundID.String())
	assert.Equal(t, "200000000000", round.Answer.String())

	feed.UpdateAnswer(number.Decimal("180000000000"))
	round, _ = feed.LatestRoundData(context.Background())
	assert.Equal(t, "2", round.RoundID.String())
	assert.Equal(t, "2", round.AnsweredInRound.String())
	assert.Equal(t, now, round.UpdatedAt)

	old := now.Add(-4 * time.Hour)
	feed.UpdateRoundData(9, number.Decimal("1"), old, old)
	round, _ = feed.LatestRoundData(context.Background())
	assert.Equal(t, "9", round.AnsweredInRound.String())
	assert.Equal(t, old, round.UpdatedAt)
}

func TestFeeds(t *testing.T) {
	feeds := Feeds{"eth-usd": NewMockFeed(number.Decimal("1")), "nil": nil}

	_, ok := feeds.Feed("eth-usd")
	assert.True(t, ok)
	_, ok = feeds.Feed("nil")
	assert.False(t, ok)
	_, ok = feeds.Feed("btc-usd")
	assert.False(t, ok)
}

func TestHTTPFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/feeds/eth-usd/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"round_id":7,"answer":"200000000000","started_at":1700000000,"updated_at":1700000100,"answered_in_round":7}`))
	}))
	defer srv.Close()

	round, err := NewHTTPFeed(srv.URL+"/", "eth-usd").LatestRoundData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7", round.RoundID.String())
	assert.Equal(t, "200000000000", round.Answer.String())
	assert.Equal(t, int64(1700000100), round.UpdatedAt.Unix())

	_, err = NewHTTPFeed(srv.URL, "btc-usd").LatestRoundData(context.Background())
	assert.Error(t, err)
}

func TestHTTPFeedLargeRoundID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"round_id":"36893488147419115577","answer":"200000000000","started_at":1700000000,"updated_at":1700000100,"answered_in_round":36893488147419115577}`))
	}))
	defer srv.Close()

	round, err := NewHTTPFeed(srv.URL, "eth-usd").LatestRoundData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "36893488147419115577", round.RoundID.String())
	assert.Equal(t, "36893488147419115577", round.AnsweredInRound.String())
	assert.Error(t, err)
}
