package worker

import (
	"context"
	"sync/atomic"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// IJob cron driven worker
type IJob interface {
	Start() error
	Run()
	Stop() error
}

type OnWork func() error

// BaseJob runs OnWork on the cron schedule, overlapping ticks are dropped
type BaseJob struct {
	Name    string
	Cron    *cron.Cron
	OnWork  OnWork
	running int32
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop scheduling and wait for the running job
func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

// IsRunning a run is in progress
func (job *BaseJob) IsRunning() bool {
	return atomic.LoadInt32(&job.running) == 1
}

func (job *BaseJob) Run() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	if err := job.OnWork(); err != nil {
		logger.FromContext(context.Background()).WithError(err).Errorln("worker:", job.Name)
	}
}
