package oracle

import (
	"context"
	"sync"
	"time"

	"synth/core"

	"github.com/shopspring/decimal"
)

// MockFeed in-memory aggregator, every update opens a new round
type MockFeed struct {
	mu    sync.RWMutex
	round core.RoundData
	clock func() time.Time
}

// NewMockFeed new mock feed answering with answer, updated now
func NewMockFeed(answer decimal.Decimal) *MockFeed {
	f := &MockFeed{clock: time.Now}
	f.UpdateAnswer(answer)
	return f
}

// WithClock use clock as the update time source
func (f *MockFeed) WithClock(clock func() time.Time) *MockFeed {
	f.mu.Lock()
	f.clock = clock
	f.mu.Unlock()
	return f
}

// UpdateAnswer publish a new answer at the current time
func (f *MockFeed) UpdateAnswer(answer decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock()
	f.round.RoundID = f.round.RoundID.Add(decimal.New(1, 0))
	f.round.Answer = answer
	f.round.StartedAt = now
	f.round.UpdatedAt = now
	f.round.AnsweredInRound = f.round.RoundID
}

// UpdateRoundData overwrite the whole round
func (f *MockFeed) UpdateRoundData(roundID int64, answer decimal.Decimal, startedAt, updatedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.round = core.RoundData{
		RoundID:         decimal.NewFromInt(roundID),
		Answer:          answer,
		StartedAt:       startedAt,
		UpdatedAt:       updatedAt,
		AnsweredInRound: decimal.NewFromInt(roundID),
	}
}

func (f *MockFeed) LatestRoundData(ctx context.Context) (*core.RoundData, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	round := f.round
	return &round, nil
}
