package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dreytengan/futurepaths/internal/api"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve suggestions, résumé analysis and insights over HTTP",
		Long: `Endpoints:
  GET  /healthz
  POST /suggest           {"query": "...", "top_k": 3}
  POST /suggest/resume    multipart: file (PDF), mode (conventional|pivot), aspirations, top_k
  GET  /insights?title=   salary estimate and internship search links`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := a.open()
			if err != nil {
				return err
			}
			defer e.close()

			svc, err := e.careerService(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.cfg.Serve.Addr
			}
			h := api.NewHandler(svc, e.resumeParser(), api.Options{
				TopK:           e.cfg.Serve.TopK,
				MaxUploadBytes: e.cfg.Serve.MaxUploadBytes,
				Logger:         e.logger,
			})
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewRouter(h),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				e.logger.Info("listening", "addr", addr)
				errc <- srv.ListenAndServe()
			}()
			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			e.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default serve.addr)")
	return cmd
}
