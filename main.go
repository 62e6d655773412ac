package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/expert-qa/cliparse"
	"github.com/danielhkuo/expert-qa/db"
	"github.com/danielhkuo/expert-qa/router"
	"github.com/danielhkuo/expert-qa/store"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:                "serve [flags]",
		Short:              "Run the HTTP server (default)",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(args)
		},
	}

	grantCmd := &cobra.Command{
		Use:                "grant-admin NAME [flags]",
		Short:              "Give an existing user the admin flag",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
				return errors.New("grant-admin requires a user name")
			}
			return grantAdmin(args[0], args[1:])
		},
	}

	// Args must be set: with a nil Args cobra treats the value of a
	// single-dash long flag (-session-secret x) as an unknown subcommand.
	root := &cobra.Command{
		Use:                "expert-qa [flags]",
		Short:              "Expert Q&A server",
		SilenceUsage:       true,
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(args)
		},
	}
	root.AddCommand(serveCmd, grantCmd)

	return root
}

// setup parses configuration, installs the logger and opens the migrated database
func setup(args []string) (cliparse.Config, *sql.DB, db.Dialect, error) {
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		return cfg, nil, "", err
	}

	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogJSON {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	}

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return cfg, nil, "", err
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		return cfg, nil, "", err
	}

	// Create schema (tables)
	if err := db.CreateSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		slog.Error("schema creation failed", "error", err)
		return cfg, nil, "", err
	}
	slog.Info("Database schema ready", "dialect", dialect)

	return cfg, conn, dialect, nil
}

func serve(args []string) error {
	cfg, conn, _, err := setup(args)
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.OpenPromotion {
		slog.Warn("open promotion enabled: /promoted does not require an admin session")
	}

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(conn, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return err
	}
	slog.Info("Server closed")
	return nil
}

func grantAdmin(name string, args []string) error {
	_, conn, dialect, err := setup(args)
	if err != nil {
		return err
	}
	defer conn.Close()

	users := store.NewUserStore(db.Bind(conn, dialect))
	if err := users.SetAdmin(context.Background(), name, true); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no user named %q", name)
		}
		return err
	}

	slog.Info("admin granted", "name", name)
	return nil
}
