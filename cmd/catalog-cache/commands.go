package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-catalog-cache/internal/api"
	"github.com/goliatone/go-catalog-cache/internal/config"
	"github.com/goliatone/go-catalog-cache/pkg/di"
)

type app struct {
	cfg       config.Config
	logger    *zap.Logger
	container *di.Container
}

func (r *app) Close() {
	if r.container != nil {
		if err := r.container.Close(); err != nil {
			r.logger.Warn("closing container", zap.Error(err))
		}
	}
	_ = r.logger.Sync()
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog-cache",
		Short:         "Serve films, people and genres from Elasticsearch through a Redis cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to a YAML config file")
	root.PersistentFlags().String("log-level", "", "override the configured log level")

	root.AddCommand(newServeCommand(), newGetCommand(), newFilmsOfCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			c := rt.container
			handler := api.NewHandler(c.Films(), c.Persons(), c.Genres(), rt.logger)
			return api.Serve(cmd.Context(), rt.cfg.HTTPAddr, api.NewRouter(handler), rt.logger)
		},
	}
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "get film|person|genre <id>",
		Short:     "Read one document through the cache and print it as JSON",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"film", "person", "genre"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			doc, err := lookup(cmd.Context(), rt.container, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func newFilmsOfCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "films-of <person-id>",
		Short: "List the films of a person through the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			films, err := rt.container.Persons().Films(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), films)
		},
	}
}

func lookup(ctx context.Context, c *di.Container, kind, id string) (any, error) {
	switch kind {
	case "film":
		return c.Films().GetByID(ctx, id)
	case "person":
		return c.Persons().GetByID(ctx, id)
	case "genre":
		return c.Genres().GetByID(ctx, id)
	default:
		return nil, errors.Newf("unknown kind %q, want film, person or genre", kind)
	}
}

func setup(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("project", cfg.ProjectName))

	container, err := di.NewContainer(cmd.Context(), cfg.CacheConfig(), cfg.SearchConfig(), logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, container: container}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
