package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-md2site/internal/watcher"
)

// DefaultAddr is where serve listens unless --addr or MD2SITE_ADDR is set.
const DefaultAddr = "localhost:4000"

const shutdownTimeout = 5 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	var (
		delay   time.Duration
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Build, serve the destination over HTTP, and rebuild on change",
		Long: `Serve builds the site, serves the destination directory over HTTP, and
rebuilds on every change under the source directory.

Examples:
  md2site serve
  md2site serve --addr :8080 --no-watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			b, err := c.builder()
			if err != nil {
				return err
			}
			if _, err := b.Build(ctx); err != nil {
				return err
			}

			ln, err := net.Listen("tcp", c.v.GetString("addr"))
			if err != nil {
				return err
			}
			c.log.Info("serving", zap.String("url", "http://"+ln.Addr().String()),
				zap.String("dir", b.Config().Build.Destination))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return serveDir(gctx, ln, b.Config().Build.Destination, c.log)
			})
			if !noWatch {
				g.Go(func() error {
					return c.watchSource(gctx, b.Config().Build, delay)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().String("addr", DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&delay, "delay", watcher.DefaultDelay, "quiet period before rebuilding")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "serve without rebuilding on change")
	bindFlags(c.v, cmd.Flags())
	return cmd
}

// serveDir serves dir on ln until ctx is done, then shuts down gracefully.
func serveDir(ctx context.Context, ln net.Listener, dir string, log *zap.Logger) error {
	srv := &http.Server{
		Handler:           logRequests(http.FileServer(http.Dir(dir)), log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func logRequests(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
