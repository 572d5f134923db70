package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gosmtp "github.com/emersion/go-smtp"
	"github.com/spf13/cobra"
	"github.com/welldanyogia/webrana-mailarchive/internal/api"
	"github.com/welldanyogia/webrana-mailarchive/internal/smtp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, when enabled, the SMTP intake",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		a.log.Info("starting mail archive server")

		router := api.NewRouter(ctx, &api.RouterConfig{
			DB:             a.db,
			Repositories:   a.repos,
			Ingest:         a.ingest,
			Bodies:         a.bodies,
			Sources:        a.sources,
			Logger:         a.log,
			APIKey:         a.cfg.APIKey,
			AllowedOrigins: a.cfg.Origins(),
			AppEnv:         a.cfg.AppEnv,
			RateLimit:      a.cfg.RateLimitRequests,
			RateBurst:      a.cfg.RateLimitBurst,
		})

		var smtpServer *gosmtp.Server
		if a.cfg.SMTPEnabled {
			smtpServer, err = newSMTPServer(a)
			if err != nil {
				return err
			}
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			addr := fmt.Sprintf(":%d", a.cfg.APIPort)
			a.log.Info("HTTP server listening", slog.String("addr", addr))
			if err := router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server: %w", err)
			}
			return nil
		})

		if smtpServer != nil {
			g.Go(func() error {
				a.log.Info("SMTP server listening", slog.String("addr", smtpServer.Addr))
				if err := smtpServer.ListenAndServe(); err != nil && !errors.Is(err, gosmtp.ErrServerClosed) {
					return fmt.Errorf("SMTP server: %w", err)
				}
				return nil
			})
		}

		g.Go(func() error {
			<-gctx.Done()
			a.log.Info("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			var errs []error
			if err := router.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
			}
			if smtpServer != nil {
				if err := smtpServer.Shutdown(shutdownCtx); err != nil {
					errs = append(errs, fmt.Errorf("SMTP shutdown: %w", err))
				}
			}
			return errors.Join(errs...)
		})

		if err := g.Wait(); err != nil {
			return err
		}
		a.log.Info("server stopped")
		return nil
	},
}

func newSMTPServer(a *app) (*gosmtp.Server, error) {
	serverCfg, err := smtp.NewServerConfig(a.cfg.SMTPPort, a.cfg.SMTPDomain, a.cfg.SMTPTLSCert, a.cfg.SMTPTLSKey)
	if err != nil {
		return nil, err
	}
	backend := smtp.NewBackend(&smtp.BackendConfig{
		Ingest:         a.ingest,
		AllowedDomains: a.cfg.SMTPAllowedDomains,
		Logger:         a.log,
	})
	return smtp.NewServer(backend, serverCfg), nil
}
