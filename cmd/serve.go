package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/qbitwatch/metrics"
	"github.com/s0up4200/qbitwatch/poller"
	"github.com/s0up4200/qbitwatch/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sensor daemon",
	Long: `Poll qBittorrent on the configured interval and publish the derived
sensors over HTTP: JSON at /api/v1/sensors, Prometheus metrics at /metrics
and a health check at /healthz.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	client, err := newQBittorrentClient()
	if err != nil {
		return err
	}

	filter, err := sensorFilter()
	if err != nil {
		return err
	}

	metrics.Register(prometheus.DefaultRegisterer)

	p := poller.New(client, filter, cfg.Poll.Interval, logger)

	srv := server.New(p,
		server.WithLogger(logger),
		// A reading older than three missed polls is worth flagging.
		server.WithStaleAfter(3*cfg.Poll.Interval),
	)

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("listen", cfg.Server.Listen).
		Dur("interval", cfg.Poll.Interval).
		Str("qbittorrent", cfg.QBittorrent.URL).
		Msg("Starting qbitwatch")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return p.Run(gctx)
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info().Msg("Shutdown complete")
	return nil
}
