package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/manualsite/internal/cache"
	"github.com/ziadkadry99/manualsite/internal/logfields"
	"github.com/ziadkadry99/manualsite/internal/metrics"
	"github.com/ziadkadry99/manualsite/internal/registry"
	"github.com/ziadkadry99/manualsite/internal/render"
	"github.com/ziadkadry99/manualsite/internal/server"
	"github.com/ziadkadry99/manualsite/internal/site"
)

var (
	servePort    int
	pageTimeout  time.Duration
	shutdownWait time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the manual site over HTTP",
	Long: `Starts the manual site: server-rendered pages, a JSON API for tables of
contents, page lists and version catalogs, and websocket live sessions
in which the browser drives navigation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		reg, err := registry.FromConfig(cfg.Manuals)
		if err != nil {
			return fmt.Errorf("building manual registry: %w", err)
		}

		database, err := openCache(cfg)
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
			if cfg.Cache.MaxAge > 0 {
				n, err := cache.NewStore(database).Purge(cmd.Context(), cfg.Cache.MaxAge)
				if err != nil {
					logger.Warn("Cache purge failed", logfields.Error(err))
				} else if n > 0 {
					logger.Info("Purged stale cache entries", logfields.Count(int(n)))
				}
			}
		}

		promReg := prometheus.NewRegistry()
		rec := metrics.NewPrometheusRecorder(promReg)

		manuals, err := buildManuals(cfg, reg, database, logger, rec)
		if err != nil {
			return err
		}
		st, err := site.New(site.Options{
			Manuals:     manuals,
			Renderer:    render.New(),
			PublicURL:   cfg.Server.PublicURL,
			PageTimeout: pageTimeout,
			Logger:      logger,
			Metrics:     rec,
		})
		if err != nil {
			return fmt.Errorf("creating site: %w", err)
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database, logger, metrics.HTTPHandler(promReg))
		st.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Shutdown failed", logfields.Error(err))
			}
		}()

		logger.Info("manualsite server starting",
			"version", Version,
			"port", cfg.Server.Port,
			"manuals", reg.Names(),
			"cache", database != nil,
		)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("running server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on (overrides server.port)")
	serveCmd.Flags().DurationVar(&pageTimeout, "page-timeout", 30*time.Second, "timeout for page and API requests")
	serveCmd.Flags().DurationVar(&shutdownWait, "shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}
