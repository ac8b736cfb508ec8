package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/konstruksi-web/internal/config"
	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/content/sqlite"
	"finitefield.org/konstruksi-web/internal/observability"
	"finitefield.org/konstruksi-web/internal/site"
)

type rootOptions struct {
	addr   string
	dbPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "konstruksi-web",
		Short: "Bilingual company site for Bangun Karya Nusantara",
		Long: `konstruksi-web serves the public company site (home, about, organisation
chart, services, projects and articles in Indonesian and English) and the
authenticated admin list views.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides KONSTRUKSI_WEB_ADDR)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "sqlite catalog path (overrides KONSTRUKSI_WEB_DB_PATH)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the web server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "pages",
			Short: "List the registered page identifiers",
			RunE: func(cmd *cobra.Command, _ []string) error {
				reg := site.NewRegistry()
				for _, id := range reg.IDs() {
					marker := ""
					if id == reg.Home() {
						marker = " (home)"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", id, marker)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the sqlite catalog migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := openStore(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer store.Close()
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Import the embedded seed projects and articles into sqlite",
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := openStore(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer store.Close()
				seed, err := content.LoadSeed()
				if err != nil {
					return err
				}
				if err := store.Seed(cmd.Context(), seed); err != nil {
					return fmt.Errorf("seed catalog: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d projects and %d articles\n", len(seed.Projects), len(seed.Articles))
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "konstruksi-web %s\n", version)
			},
		},
	)
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	return cfg, nil
}

func openStore(ctx context.Context, opts *rootOptions) (*sqlite.Store, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		return nil, errors.New("no catalog database: set KONSTRUKSI_WEB_DB_PATH or --db")
	}
	return sqlite.Open(ctx, cfg.DBPath)
}

func runServe(ctx context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	defer a.Close()
	return a.ListenAndServe(ctx)
}
