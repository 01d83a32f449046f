package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/krisalay/compute-cache/filecount"
	"github.com/krisalay/compute-cache/httpapi"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the file count page over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.cache.Close()

		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           httpapi.New(a.page, a.metrics.Handler()),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info("listening", "addr", "http://"+cfg.Listen, "root", cfg.Root, "key", cfg.Key)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("unable to serve: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			log.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		})

		if cfg.Watch {
			w, err := filecount.NewWatcher(cfg.Root, cfg.Key, a.cache, log.Default())
			if err != nil {
				stop()
				_ = g.Wait()
				return fmt.Errorf("unable to watch %s: %w", cfg.Root, err)
			}
			defer w.Close() //nolint:errcheck
			g.Go(func() error { return w.Run(gctx) })
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("listen", "127.0.0.1:8080", "address to listen on")
	serveCmd.Flags().Bool("watch", false, "clear the cached count when files under root change")
	_ = viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("watch", serveCmd.Flags().Lookup("watch"))
}
