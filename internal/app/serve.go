package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/api"
)

func newServeCmd() *cobra.Command {
	var (
		host     string
		port     int
		readOnly bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local catalog over HTTP",
		Long: `Serve the local catalog as a JSON API.

Routes:
  GET  /healthz
  GET  /api/version
  GET  /api/update          whether a new catalog version is available
  POST /api/update          run an update and return its status
  GET  /api/cards           ?q= &type= &attribute= &race= &archetype= &set= &limit=
  GET  /api/cards/{id}
  GET  /api/sets
  GET  /api/sets/{name}
  GET  /api/banlists        ?list=`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("host") {
				host = cfg.Serve.Host
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Serve.Port
			}

			var u api.Updater = upd
			if readOnly {
				u = nil
			}
			srv := api.NewServer(active, u)
			addr := net.JoinHostPort(host, strconv.Itoa(port))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()
			ok("Serving catalog on http://%s", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			ok("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Listen host (default from serve.host)")
	cmd.Flags().IntVar(&port, "port", 8080, "Listen port (default from serve.port)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Disable the update routes")
	return cmd
}
