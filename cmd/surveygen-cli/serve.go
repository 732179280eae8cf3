package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/internal/catalog"
	"github.com/goliatone/go-surveygen/internal/logging"
	"github.com/goliatone/go-surveygen/internal/server"
	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/session"
	"github.com/goliatone/go-surveygen/pkg/submission"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the surveys of a directory over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := a.cfg
			logger := logging.Component(a.logger, "serve")

			cat, err := catalog.New(ctx, cfg.Server.Dir, catalog.WithLogger(logging.Component(a.logger, "catalog")))
			if err != nil {
				return err
			}
			if cfg.Server.Watch {
				go func() {
					if err := cat.Watch(ctx); err != nil {
						logger.Error("catalog watch stopped", "error", err)
					}
				}()
			}

			opts := []server.Option{
				server.WithLogger(logging.Component(a.logger, "server")),
				server.WithOrchestrator(orchestrator.New(orchestrator.WithLogger(a.logger))),
				server.WithCookieName(cfg.Server.CookieName),
				server.WithSessionTTL(cfg.Server.SessionTTL),
				server.WithRenderer(cfg.Render.Renderer),
				server.WithLocale(cfg.Render.Locale),
			}

			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				defer client.Close()
				if err := client.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
				}
				store, err := session.NewRedisStore(client,
					session.WithKeyPrefix(cfg.Redis.Prefix),
					session.WithTTL(cfg.Server.SessionTTL),
				)
				if err != nil {
					return err
				}
				opts = append(opts, server.WithStore(store))
				logger.Info("using redis session store", "addr", cfg.Redis.Addr)
			}

			if cfg.Storage.Database != "" {
				sink, err := submission.OpenSQLite(cfg.Storage.Database)
				if err != nil {
					return err
				}
				defer sink.Close()
				opts = append(opts, server.WithSink(sink))
				logger.Info("storing submissions", "database", cfg.Storage.Database)
			}

			srv, err := server.New(cat, opts...)
			if err != nil {
				return err
			}
			logger.Info("serving surveys", "dir", cfg.Server.Dir, "surveys", len(cat.IDs()))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address (default :8080)")
	flags.String("dir", "", "directory holding survey documents (default ./surveys)")
	flags.String("redis", "", "Redis address for sessions (in-memory when empty)")
	flags.String("db", "", "SQLite database receiving submissions")
	flags.String("renderer", "", "renderer used for pages (default html)")
	flags.String("locale", "", "locale for labels and messages")
	return cmd
}
