package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/cmd/helpers"
	"github.com/zinc-sig/pyramid/internal/server"
)

var (
	serveFlags  config.ServeFlags
	serveGrader config.GraderConfig
	serveStore  config.StoreConfig
)

var serveCmd = &cobra.Command{
	Use:   "serve [--addr :8080]",
	Short: "Grade submissions over HTTP",
	Long: `Start an HTTP server that grades submissions and serves stored reports.

Routes:
  POST /grade          {"source": "..."} -> report
  GET  /reports        newest stored reports (?limit=N)
  GET  /reports/{id}   one stored report
  GET  /healthz        liveness`,
	Example: `  pyramid serve --addr :8080 --db-driver sqlite
  pyramid serve --cors-origin http://localhost:3000 --cases cases.yaml`,
	RunE: serveCommand,
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := helpers.OpenStore(ctx, &serveStore)
	if err != nil {
		return err
	}

	grader, executor, err := helpers.NewGrader(&serveGrader, logger, nil)
	if err != nil {
		return err
	}
	defer executor.Close()

	opts := server.Options{
		Grader:         grader,
		Logger:         logger,
		AllowedOrigins: serveFlags.Origins,
		RequestTimeout: serveFlags.RequestTimeout,
	}
	if st != nil {
		defer st.Close()
		opts.Reports = st
	}

	srv := &http.Server{
		Addr:              serveFlags.Addr,
		Handler:           server.New(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", serveFlags.Addr), zap.Int("cases", len(grader.Cases())))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.Addr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringArrayVar(&serveFlags.Origins, "cors-origin", nil, "Allowed CORS origin (can be used multiple times, all when empty)")
	serveCmd.Flags().DurationVar(&serveFlags.RequestTimeout, "request-timeout", server.DefaultRequestTimeout, "Per-request timeout")

	helpers.SetupGraderFlags(serveCmd, &serveGrader)
	helpers.SetupStoreFlags(serveCmd, &serveStore)
}
