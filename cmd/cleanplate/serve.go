package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	cpgin "github.com/AdamMoses-GitHub/cleanplate/gin"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is canceled,
// then drains in-flight requests.
func (c *ServeCmd) Run(deps *Dependencies) error {
	gin.SetMode(gin.ReleaseMode)

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot listen on %s\n", c.Addr)
		return fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:           cpgin.NewRouter(deps.Service, deps.Logger, time.Now()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	fmt.Fprintf(deps.Stdout, "Listening on http://%s\n", ln.Addr())

	g, gctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	})
	return g.Wait()
}
