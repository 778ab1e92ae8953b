package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"civicos/internal/db"
	"civicos/internal/middleware"
	"civicos/internal/router"
	"civicos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func ServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			gdb, err := db.Open(cfg)
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			if cfg.SeedOnStart {
				if err := db.Seed(gdb); err != nil {
					return err
				}
			}

			a := newApp(ctx, cfg, gdb)
			go a.queue.Run(ctx)

			scheduler := services.NewScheduler(30 * time.Minute)
			if err := a.jobs().Register(scheduler); err != nil {
				return err
			}
			scheduler.Start()
			defer func() { <-scheduler.Stop().Done() }()

			if cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}
			r := gin.New()
			r.Use(gin.Recovery(), middleware.RequestLogger())
			router.RegisterRoutes(r, a.deps)

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("CivicOS API listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
