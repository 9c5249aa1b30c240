package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aasedek/Analytica-AI-Product-1/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor HTTP and websocket API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}
			srv, err := a.newServer()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.ListenAndServe(ctx, addr)
			})
			g.Go(func() error {
				<-ctx.Done()
				a.logger.Info("shutdown requested", zap.Error(context.Cause(ctx)))
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from PIPELINEPILOT_ADDR or :8080)")
	return cmd
}

// newServer wires the configured collaborators into an editor server
func (a *app) newServer() (*server.Server, error) {
	opts := []server.Option{server.WithLogger(a.logger)}

	ex, err := a.executor()
	if err != nil {
		return nil, err
	}
	if ex != nil {
		opts = append(opts, server.WithExecutor(ex))
	} else {
		a.logger.Warn("no execution backend configured; execute requests will fail")
	}

	assistant, err := a.assistant()
	if err != nil {
		return nil, err
	}
	if assistant != nil {
		opts = append(opts, server.WithOptimizer(assistant))
	} else {
		a.logger.Warn("no OpenAI key configured; optimize requests will fail")
	}

	a.logger.Info("catalog loaded", zap.Int("components", a.catalog.Len()))
	return server.New(a.catalog, opts...), nil
}
