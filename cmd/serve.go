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

	"github.com/spf13/cobra"

	"github.com/dcamposl/ragdocs/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ragdocs HTTP API server",
	Long:  `Starts the HTTP API: asynchronous document ingestion under /api/v1/documents and question answering under /api/v1/ask.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		database, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		embedder, vdb := buildVectorIndex(ctx, cfg)
		manager, err := buildIngestManager(ctx, cfg, database, embedder, vdb)
		if err != nil {
			return fmt.Errorf("building ingestion pipeline: %w", err)
		}
		engine := buildQueryEngine(cfg, vdb)

		srv := server.New(cfg, database, manager, engine)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			fmt.Fprintf(os.Stderr, "received %s, shutting down\n", sig)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
