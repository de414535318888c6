package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/dayplan/internal/config"
	"github.com/twiced-technology-gmbh/dayplan/internal/mockstore"
)

const shutdownTimeout = 5 * time.Second

var serveMockCmd = &cobra.Command{
	Use:   "serve-mock",
	Short: "Run an in-memory to-do store for local development",
	Long: `Serves the to-do collection in memory with the same resource shape as the
hosted store. Point the client at it with --api-url or ` + config.EnvAPIURL + `.`,
	Args: cobra.NoArgs,
	RunE: runServeMock,
}

func init() {
	serveMockCmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	rootCmd.AddCommand(serveMockCmd)
}

func runServeMock(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	srv := &http.Server{
		Addr:              addr,
		Handler:           mockstore.New().Handler(),
		ReadHeaderTimeout: 10 * time.Second, //nolint:mnd // slowloris guard
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	fmt.Fprintf(os.Stderr, "mock store listening on http://%s (collection: any name, e.g. /%s)\n",
		addr, config.DefaultCollection)
	slog.Info("mock store started", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("mock store stopping")
	return srv.Shutdown(shutdownCtx)
}
