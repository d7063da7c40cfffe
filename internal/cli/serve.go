package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arcisi/internal/config"
	"github.com/matzehuels/arcisi/internal/server"
	"github.com/matzehuels/arcisi/pkg/cache"
	"github.com/matzehuels/arcisi/pkg/observability"
	"github.com/matzehuels/arcisi/pkg/pipeline"
	"github.com/matzehuels/arcisi/pkg/store"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath  string
		addr        string
		printConfig bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Configuration is read from $XDG_CONFIG_HOME/arcisi/config.toml (or --config)
and ARCISI_* environment variables. Plans and artifacts are cached in the
configured backend (none, file or redis); bakes are recorded in MongoDB when
[mongo] uri is set, otherwise in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if printConfig {
				fmt.Fprint(cmd.OutOrStdout(), cfg.String())
				return nil
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/arcisi/config.toml)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&printConfig, "print-config", false, "print the effective configuration and exit")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	if !c.verbose {
		level, err := parseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		c.SetLogLevel(level)
	}
	logger := c.Logger

	cc, err := newServeCache(ctx, cfg)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}
	runner := pipeline.NewRunner(cc, keyer, logger)
	defer runner.Close()

	st, err := newServeStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))

	observability.SetBakeHooks(observability.LogBakeHooks{Logger: logger})
	observability.SetHTTPHooks(observability.LogHTTPHooks{Logger: logger})
	defer observability.Reset()

	logger.Info("starting server", "addr", cfg.Server.Addr, "cache", cfg.Cache.Backend, "store", storeKind(cfg))
	srv := server.New(runner, st, cfg.Server, server.WithLogger(logger))
	return srv.Run(ctx)
}

// newServeCache opens the configured cache backend.
func newServeCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, fmt.Errorf("get cache dir: %w", err)
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// newServeStore opens MongoDB when configured, else an in-memory store.
func newServeStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.Mongo.URI == "" {
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, store.MongoConfig{
		URI:        cfg.Mongo.URI,
		Database:   cfg.Mongo.Database,
		Collection: cfg.Mongo.Collection,
	})
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func storeKind(cfg config.Config) string {
	if cfg.Mongo.URI == "" {
		return "memory"
	}
	return "mongo"
}
