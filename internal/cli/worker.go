package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"adlaan-backend/pkg/logger"

	"github.com/spf13/cobra"
)

func newWorkerCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Process queued tasks without serving HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd.Context(), workers)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers (defaults to WORKER_CONCURRENCY)")
	return cmd
}

func runWorker(ctx context.Context, workers int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.sharedQueue() {
		return errors.New("a standalone worker needs the redis queue backend")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := rt.startBackground(ctx, workers)
	<-ctx.Done()
	logger.L().Info("Waiting for in-flight tasks")
	pool.Wait()
	return nil
}
