package oracle

import (
	"synth/core"
)

// Feeds price feeds keyed by feed id
type Feeds map[string]core.IPriceFeed

// Feed find feed by id
func (f Feeds) Feed(feedID string) (core.IPriceFeed, bool) {
	feed, ok := f[feedID]
	return feed, ok && feed != nil
}
