package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/api"
	"github.com/abhisek/mathgenius/internal/curriculum"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question and session API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := buildServices(ctx, st)
		if err != nil {
			return err
		}
		defer svc.close()

		log := logger.WithField("component", "server")
		server := api.New(api.Deps{
			Questions:    svc.questions,
			Calibrator:   svc.calibrator,
			Observations: st.ObservationRepo(),
			Events:       st.EventRepo(),
			Log:          logrus.NewEntry(logger),
		}, api.Config{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			SessionTTL:       cfg.Server.SessionTTL,
			MaxSessions:      cfg.Server.MaxSessions,
			Grade:            cfg.Session.Grade,
			Tier:             curriculum.TierEasy,
			SessionLength:    cfg.Session.Length,
			RecalibrateEvery: cfg.Session.RecalibrateEvery,
		})

		srv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      server.Handler(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errc := make(chan error, 1)
		go func() {
			log.WithField("addr", srv.Addr).Info("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
			close(errc)
		}()

		select {
		case err := <-errc:
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
}
