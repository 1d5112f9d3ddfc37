package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"synth/handler"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run synth api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		ctx = logger.WithContext(ctx, logger.FromContext(ctx))

		a := provideApp(ctx)
		defer a.close()

		if withMonitor, _ := cmd.Flags().GetBool("monitor"); withMonitor {
			m := provideMonitor(a)
			_ = m.Start()
			defer m.Stop()
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: handler.New(a.engine, a.guard, rootCmd.Version).Handler(),
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("monitor", false, "run the health factor monitor in process, needed with memory storage")
}
