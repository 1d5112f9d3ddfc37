package cmd

import (
	"context"

	"synth/core"
	"synth/worker"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "synth job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		if cfg.App.Storage != core.StorageDB {
			log.Warnln("memory storage is per process, the worker only sees its own positions; use server --monitor")
		}

		a := provideApp(ctx)
		defer a.close()

		jobs := []worker.IJob{
			provideMonitor(a),
		}

		ctx = signal.WithContext(ctx)
		g, ctx := errgroup.WithContext(ctx)
		for _, job := range jobs {
			job := job
			g.Go(func() error {
				if err := job.Start(); err != nil {
					return err
				}

				<-ctx.Done()
				return job.Stop()
			})
		}

		if err := g.Wait(); err != nil && err != context.Canceled {
			log.WithError(err).Errorln("worker exit")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
