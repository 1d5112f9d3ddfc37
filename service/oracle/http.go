package oracle

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"synth/core"
	"synth/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type roundView struct {
	RoundID         decimal.Decimal `json:"round_id"`
	Answer          decimal.Decimal `json:"answer"`
	StartedAt       int64           `json:"started_at"`
	UpdatedAt       int64           `json:"updated_at"`
	AnsweredInRound decimal.Decimal `json:"answered_in_round"`
}

// HTTPFeed reads round data from a remote oracle
type HTTPFeed struct {
	endpoint string
	feedID   string
}

// NewHTTPFeed new http feed
func NewHTTPFeed(endpoint, feedID string) *HTTPFeed {
	return &HTTPFeed{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		feedID:   feedID,
	}
}

func (f *HTTPFeed) LatestRoundData(ctx context.Context) (*core.RoundData, error) {
	uri := fmt.Sprintf("%s/api/feeds/%s/latest", f.endpoint, url.PathEscape(f.feedID))
	logger.FromContext(ctx).Debugln("pull round data:", uri)

	resp, err := resthttp.Request(ctx).Get(uri)
	if err != nil {
		return nil, err
	}

	var view roundView
	if err := resthttp.ParseResponse(resp, &view); err != nil {
		return nil, err
	}

	return &core.RoundData{
		RoundID:         view.RoundID,
		Answer:          view.Answer,
		StartedAt:       time.Unix(view.StartedAt, 0),
		UpdatedAt:       time.Unix(view.UpdatedAt, 0),
		AnsweredInRound: view.AnsweredInRound,
	}, nil
}
