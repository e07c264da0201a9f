package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/curator/internal/config"
	"github.com/lazypower/curator/internal/engine"
	"github.com/lazypower/curator/internal/server"
	"github.com/lazypower/curator/internal/store"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.toml")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	eng := engine.New(engine.Options{
		RecomputeDebounce: time.Duration(cfg.Engine.RecomputeDebounceMS) * time.Millisecond,
		QueueSize:         cfg.Engine.QueueSize,
	})
	defer eng.Stop()

	if err := replay(db, eng); err != nil {
		return fmt.Errorf("replay state: %w", err)
	}
	profiles, items := eng.Counts()

	srv := server.New(db, eng, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "curator serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", db.Path)
		fmt.Fprintf(os.Stderr, "  replayed: %d items, %d profiles\n", items, profiles)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

// replay loads the persisted catalog and profiles into a fresh engine.
// Content goes first so profile preference recomputes can resolve item ids.
func replay(db *store.DB, eng *engine.Engine) error {
	items, err := db.ListContent()
	if err != nil {
		return err
	}
	for _, item := range items {
		eng.AddContent(item)
	}

	profiles, err := db.ListProfiles()
	if err != nil {
		return err
	}
	for _, p := range profiles {
		eng.RestoreProfile(p)
	}
	return nil
}

// openDB resolves the database path from config, the CURATOR_DB env
// override, or the default location.
func openDB(cfg config.Config) (*store.DB, error) {
	path := os.Getenv("CURATOR_DB")
	if path == "" {
		path = cfg.Database.Path
	}
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}
