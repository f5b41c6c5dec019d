package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/platinummonkey/turtle/pkg/configstore"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Bootstrap plugins and serve health, metrics and plugin endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(dirs) > 0 {
				cfg.Plugins.Dirs = dirs
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := NewApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.Bootstrap(ctx); err != nil {
				// failed plugins stay visible through /plugins
				log.WithError(err).Warn("Some plugins failed to initialise")
			}

			if cfg.Plugins.WatchConfig {
				if err := watchConfigs(ctx, app.ConfigPaths(), log); err != nil {
					return err
				}
			}

			server := &http.Server{
				Addr:         cfg.Server.Addr(),
				Handler:      NewServer(app).Router(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", server.Addr).Info("Starting server")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "Plugin directory to scan (repeatable)")

	return cmd
}

// watchConfigs logs when a loaded config file changes. Config is loaded once
// per process, so a change needs a restart to take effect.
func watchConfigs(ctx context.Context, paths []string, log *logrus.Logger) error {
	if len(paths) == 0 {
		return nil
	}

	watcher, err := configstore.NewWatcher(log)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			_ = watcher.Close()
			return err
		}
	}

	go func() {
		defer watcher.Close()
		err := watcher.Run(ctx, func(path string) {
			log.WithField("path", path).Warn("Plugin config changed, restart required")
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("Config watcher stopped")
		}
	}()

	return nil
}
