package engine

import (
	"context"

	"synth/core"
	"synth/pkg/id"
	"synth/pkg/metrics"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// step external side effect and the action that reverts it
type step struct {
	name string
	do   func(ctx context.Context) error
	undo func(ctx context.Context) error
}

// operation one mutating engine call
type operation struct {
	action  core.ActionType
	userID  string
	assetID string
	amount  decimal.Decimal
	extra   core.TransactionExtraData
	steps   []step
}

func newOperation(action core.ActionType, userID, assetID string, amount decimal.Decimal) *operation {
	return &operation{
		action:  action,
		userID:  userID,
		assetID: assetID,
		amount:  amount,
		extra:   core.NewTransactionExtra(),
	}
}

// then schedules an external call, run after the ledger is updated and checked
func (op *operation) then(name string, do, undo func(ctx context.Context) error) {
	op.steps = append(op.steps, step{name: name, do: do, undo: undo})
}

// execute runs fn inside one ledger unit of work while holding the locks of keys.
//
// fn mutates the ledger and checks invariants, then the transaction record
// is written and the scheduled external steps run in order. If any of it
// fails, including the commit, the ledger is rolled back and every step
// already performed is undone in reverse order.
func (e *engine) execute(ctx context.Context, op *operation, keys []string, fn func(ctx context.Context, store core.IPositionStore) error) (err error) {
	if e.locks.Held(ctx, keys...) {
		return core.ErrReentrantCall
	}

	ctx, unlock := e.locks.LockContext(ctx, keys...)
	defer unlock()

	traceID, ok := core.TraceIDFrom(ctx)
	if !ok {
		traceID = id.GenTraceID()
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action":   op.action,
		"user":     op.userID,
		"trace_id": traceID,
	})
	ctx = logger.WithContext(ctx, log)

	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(core.CodeOf(err).Category())
		}
		metrics.Operations.WithLabelValues(op.action.String(), outcome).Inc()
	}()

	var done []step
	err = e.store.Tx(ctx, func(tx core.IPositionStore) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}

		record := &core.Transaction{
			Action:  op.action,
			TraceID: traceID,
			UserID:  op.userID,
			AssetID: op.assetID,
			Amount:  op.amount,
		}
		record.SetExtraData(op.extra)
		if err := tx.CreateTransaction(ctx, record); err != nil {
			log.WithError(err).Errorln("store.CreateTransaction")
			return err
		}

		for _, s := range op.steps {
			if err := s.do(ctx); err != nil {
				log.WithError(err).Errorln(s.name)
				return err
			}

			done = append(done, s)
		}

		return nil
	})

	if err != nil {
		for idx := len(done) - 1; idx >= 0; idx-- {
			s := done[idx]
			if s.undo == nil {
				continue
			}

			if undoErr := s.undo(ctx); undoErr != nil {
				log.WithError(undoErr).Errorln("compensate", s.name)
			}
		}

		log.WithError(err).Infoln("rejected")
		return err
	}

	log.Debugln("committed")
	return nil
}
