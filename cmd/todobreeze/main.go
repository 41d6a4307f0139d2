package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Joseda-hg/todobreeze/internal/board"
	"github.com/Joseda-hg/todobreeze/internal/config"
	"github.com/Joseda-hg/todobreeze/internal/db"
	"github.com/Joseda-hg/todobreeze/internal/model"
	"github.com/Joseda-hg/todobreeze/internal/tui"
	"github.com/Joseda-hg/todobreeze/internal/visibility"
	"github.com/Joseda-hg/todobreeze/internal/web"
)

var Version = "dev"

// globalFlags are shared by every subcommand and override the config file.
type globalFlags struct {
	configPath string
	dbPath     string
	driver     string
	dsn        string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	var (
		webFlag bool
		port    int
	)

	rootCmd := &cobra.Command{
		Use:          "todobreeze",
		Short:        "Personal task manager with Inbox, Today and project views",
		Version:      Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags, webFlag, port)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "sqlite db path")
	rootCmd.PersistentFlags().StringVar(&flags.driver, "driver", "", "database driver (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "postgres connection string")
	rootCmd.Flags().BoolVar(&webFlag, "web", false, "also start the web server")
	rootCmd.Flags().IntVar(&port, "port", 0, "web server port")

	rootCmd.AddCommand(serveCmd(flags))
	rootCmd.AddCommand(listCmd(flags))
	rootCmd.AddCommand(addCmd(flags))
	rootCmd.AddCommand(exportCmd(flags))
	rootCmd.AddCommand(configCmd(flags))
	rootCmd.AddCommand(tokenCmd(flags))

	return rootCmd
}

func runTUI(flags *globalFlags, webFlag bool, port int) error {
	cfg, _, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if webFlag {
		cfg.WebEnabled = true
	}
	if port != 0 {
		cfg.WebPort = port
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.WebEnabled {
		server := newHTTPServer(cfg, store)
		go func() {
			log.Printf("Web server running at http://localhost%s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("web server error: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}()
	}

	b, err := newBoard(cfg, store)
	if err != nil {
		return err
	}
	return tui.Run(b)
}

// loadConfig reads the config file, applies the global flags and fills in
// the sqlite path. A missing config file is written with the defaults only,
// never with values taken from flags or the environment.
func loadConfig(flags *globalFlags) (config.Config, string, error) {
	cfgPath := flags.configPath
	if cfgPath == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return config.Config{}, "", err
		}
		cfgPath = defaultPath
	}

	_, statErr := os.Stat(cfgPath)
	firstRun := errors.Is(statErr, os.ErrNotExist)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, "", err
	}
	if flags.driver != "" {
		cfg.DBDriver = strings.ToLower(flags.driver)
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}
	if flags.dsn != "" {
		cfg.DBDSN = flags.dsn
	}
	if cfg.DBPath == "" {
		cfg.DBPath = config.DefaultDBPath(cfgPath)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", err
	}

	if firstRun {
		defaults := config.Default()
		defaults.DBPath = config.DefaultDBPath(cfgPath)
		if err := config.Save(cfgPath, defaults); err != nil {
			return config.Config{}, "", err
		}
	}
	return cfg, cfgPath, nil
}

func openStore(cfg config.Config) (*db.Store, func(), error) {
	if cfg.DBDriver == db.DriverSQLite {
		if err := config.EnsureDir(cfg.DBPath); err != nil {
			return nil, nil, err
		}
	}

	sqlDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	return db.NewStore(sqlDB), func() { _ = sqlDB.Close() }, nil
}

// newBoard loads a board positioned on the configured default view and
// status filter.
func newBoard(cfg config.Config, store *db.Store) (*board.Board, error) {
	status, err := visibility.ParseStatusFilter(cfg.DefaultStatus)
	if err != nil {
		return nil, fmt.Errorf("default_status: %w", err)
	}

	b := board.New(store)
	if err := b.Load(context.Background()); err != nil {
		return nil, err
	}
	view, err := resolveView(b, cfg.DefaultView)
	if err != nil {
		return nil, fmt.Errorf("default_view: %w", err)
	}
	b.Select(view)
	b.SetStatus(status)
	return b, nil
}

// resolveView accepts inbox, today, a project id or a project name.
func resolveView(b *board.Board, value string) (visibility.View, error) {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "", model.InboxID:
		return visibility.Inbox, nil
	case model.TodayID:
		return visibility.Today, nil
	}
	for _, project := range b.StoredProjects() {
		if project.ID == trimmed || strings.EqualFold(project.Name, trimmed) {
			return visibility.ProjectView(project.ID), nil
		}
	}
	return "", fmt.Errorf("unknown view or project %q", trimmed)
}

func newHTTPServer(cfg config.Config, store *db.Store) *http.Server {
	var opts []web.Option
	if cfg.AuthSecret != "" {
		opts = append(opts, web.WithAuthSecret(cfg.AuthSecret))
	}
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebPort),
		Handler:           web.NewServer(store, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
