package priceguard

import (
	"context"
	"fmt"
	"time"

	"synth/core"
	"synth/pkg/metrics"
	"synth/pkg/synth"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

type priceGuard struct {
	feeds   core.IPriceFeeds
	timeout time.Duration
	clock   func() time.Time
}

// Option guard option
type Option func(*priceGuard)

// WithClock override the time source
func WithClock(clock func() time.Time) Option {
	return func(g *priceGuard) {
		g.clock = clock
	}
}

// New price guard, answers older than synth.StaleTimeout are rejected
func New(feeds core.IPriceFeeds, opts ...Option) core.IPriceGuard {
	g := &priceGuard{
		feeds:   feeds,
		timeout: synth.StaleTimeout,
		clock:   time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *priceGuard) Timeout() time.Duration {
	return g.timeout
}

// Latest read the feed and reject stale or non-positive answers
func (g *priceGuard) Latest(ctx context.Context, feedID string) (*core.PricePoint, error) {
	feed, ok := g.feeds.Feed(feedID)
	if !ok {
		return nil, fmt.Errorf("%w: feed %s", core.ErrUnsupportedAsset, feedID)
	}

	round, err := feed.LatestRoundData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read feed %s: %w", feedID, err)
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"feed":       feedID,
		"round":      round.RoundID.String(),
		"updated_at": round.UpdatedAt,
	})

	if age := g.clock().Sub(round.UpdatedAt); age > g.timeout {
		metrics.StalePriceRejections.WithLabelValues(feedID).Inc()
		log.WithField("age", age).Warnln("reject stale price")
		return nil, fmt.Errorf("%w: feed %s updated %s ago", core.ErrStalePrice, feedID, age.Truncate(time.Second))
	}

	if !round.Answer.IsPositive() {
		log.WithField("answer", round.Answer).Warnln("reject invalid price")
		return nil, fmt.Errorf("%w: feed %s answered %s", core.ErrInvalidPrice, feedID, round.Answer)
	}

	return &core.PricePoint{
		Price:     round.Answer,
		UpdatedAt: round.UpdatedAt,
	}, nil
}
