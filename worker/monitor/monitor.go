package monitor

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"synth/core"
	"synth/pkg/concurrency"
	"synth/pkg/metrics"
	"synth/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CheckpointKey property key of the last completed scan
const CheckpointKey = "monitor_last_scan"

// Checkpoints saves scan checkpoints, property.Store satisfies it
type Checkpoints interface {
	Save(ctx context.Context, key string, value interface{}) error
}

// Report outcome of one scan
type Report struct {
	ScannedAt time.Time
	Debtors   int
	// accounts below the minimum health factor, sorted
	AtRisk       []string
	HealthFactor map[string]decimal.Decimal
	Stale        bool
}

// Monitor scans debtors and reports accounts open to liquidation, it never liquidates
type Monitor struct {
	worker.BaseJob
	engine      core.IEngine
	checkpoints Checkpoints
	parallel    int
	clock       func() time.Time
}

// New new monitor worker
func New(
	location string,
	spec string,
	engine core.IEngine,
	checkpoints Checkpoints,
) (*Monitor, error) {
	m := Monitor{
		engine:      engine,
		checkpoints: checkpoints,
		parallel:    concurrency.DefaultMax,
		clock:       time.Now,
	}

	l, err := time.LoadLocation(location)
	if err != nil {
		return nil, err
	}

	m.Name = "monitor"
	m.Cron = cron.New(cron.WithLocation(l))
	if _, err := m.Cron.AddFunc(spec, m.Run); err != nil {
		return nil, err
	}

	m.OnWork = func() error {
		_, err := m.Scan(context.Background())
		return err
	}

	return &m, nil
}

// Scan value every debtor at live prices
func (m *Monitor) Scan(ctx context.Context) (*Report, error) {
	log := logger.FromContext(ctx).WithField("worker", "monitor")

	report := &Report{
		ScannedAt:    m.clock(),
		HealthFactor: map[string]decimal.Decimal{},
	}

	debtors, err := m.engine.Debtors(ctx)
	if err != nil {
		log.WithError(err).Errorln("engine.Debtors")
		metrics.MonitorScans.WithLabelValues("error").Inc()
		return nil, err
	}

	report.Debtors = len(debtors)
	min := m.engine.Parameters().MinHealthFactor

	var (
		mu    sync.Mutex
		limit = concurrency.NewGoLimit(m.parallel)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, userID := range debtors {
		userID := userID
		limit.Add()
		g.Go(func() error {
			defer limit.Done()

			hf, err := m.engine.HealthFactor(gctx, userID)
			mu.Lock()
			defer mu.Unlock()

			switch {
			case errors.Is(err, core.ErrStalePrice):
				report.Stale = true
				return nil
			case err != nil:
				log.WithError(err).Errorln("engine.HealthFactor", userID)
				return err
			}

			report.HealthFactor[userID] = hf
			if hf.LessThan(min) {
				report.AtRisk = append(report.AtRisk, userID)
				log.WithField("user", userID).Warnf("health factor %s below minimum", hf)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.MonitorScans.WithLabelValues("error").Inc()
		return nil, err
	}

	sort.Strings(report.AtRisk)
	metrics.Debtors.Set(float64(report.Debtors))

	if report.Stale {
		log.Warnln("stale price, scan incomplete")
		metrics.MonitorScans.WithLabelValues("stale").Inc()
		return report, nil
	}

	metrics.AccountsAtRisk.Set(float64(len(report.AtRisk)))
	metrics.MonitorScans.WithLabelValues("ok").Inc()

	if err := m.checkpoints.Save(ctx, CheckpointKey, report.ScannedAt); err != nil {
		log.WithError(err).Errorln("property.Save", CheckpointKey)
		return nil, err
	}

	log.Debugf("scan %d debtors, %d at risk", report.Debtors, len(report.AtRisk))
	return report, nil
}
