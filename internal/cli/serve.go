package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adlaan-backend/internal/api"
	"adlaan-backend/internal/services"
	"adlaan-backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var (
		workers int
		apiOnly bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Unless --api-only is set, the same process also runs the
worker pool and the stale task sweeper.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), workers, apiOnly)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers (defaults to WORKER_CONCURRENCY)")
	cmd.Flags().BoolVar(&apiOnly, "api-only", false, "accept tasks without processing them in this process")
	return cmd
}

func runServe(ctx context.Context, workers int, apiOnly bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if apiOnly && !rt.sharedQueue() {
		return errors.New("--api-only needs the redis queue backend")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *services.WorkerPool
	if !apiOnly {
		pool = rt.startBackground(ctx, workers)
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Dependencies{
			Tasks:        rt.svc,
			Sweeper:      rt.sweeper,
			AllowOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		if pool != nil {
			pool.Wait()
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("HTTP shutdown failed", zap.Error(err))
	}
	if pool != nil {
		pool.Wait()
	}
	return nil
}

// startBackground starts the worker pool and the sweeper. Both stop when ctx
// is done; the caller waits on the returned pool.
func (rt *runtime) startBackground(ctx context.Context, workers int) *services.WorkerPool {
	if workers <= 0 {
		workers = rt.cfg.WorkerConcurrency
	}
	pool := services.NewWorkerPool(rt.queue, rt.svc, workers, nil)
	pool.Start(ctx)
	go rt.sweeper.Start(ctx)
	return pool
}
