package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourEmotion/goonrails/internal/client"
	"github.com/yourEmotion/goonrails/internal/web"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the post list and post pages as HTML",
	Long: `Serves GET / and GET /posts/:id on web.addr, reading posts from
client.base_url on every request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src := client.New(cfg.Client.BaseURL, cfg.Client.Timeout)
		srv := &http.Server{Addr: cfg.Web.Addr, Handler: web.NewRouter(src)}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("Web front end started",
				zap.String("addr", cfg.Web.Addr),
				zap.String("post_store", cfg.Client.BaseURL),
			)
			return listenAndServe(srv)
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}
