package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leofalp/chatflow/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the pipeline over HTTP",
	Long: `Starts an HTTP server with two GET endpoints:

  /stream?topic=...   one plain-text body of successive fragments
  /events?topic=...   text/event-stream of JSON step events

The topic parameter defaults to a fixed sample value.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.cleanup()

	addr := serveAddr
	if addr == "" {
		addr = rt.cfg.ListenAddr
	}

	streamServer := server.New(rt.pipeline,
		server.WithObserver(rt.observer),
		server.WithTypingInterval(typingInterval(rt.cfg)),
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: streamServer.Handler(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		rt.observer.Info(ctx, "HTTP server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
