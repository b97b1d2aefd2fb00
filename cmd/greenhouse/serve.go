package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dashImp "greenhouse/pkg/dashboard/controllerImp"
	healthCtrlImp "greenhouse/pkg/health/controllerImp"
	journalCtrlImp "greenhouse/pkg/journal/controllerImp"
	"greenhouse/pkg/middleware"
	"greenhouse/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboards and JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// newServer builds the echo instance over a wired app.
func newServer(a *app) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover(), echoMiddleware.RequestID(), middleware.RequestLogger(a.log.Named("http")))

	renderer, err := dashImp.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	d := dashImp.Deps{
		Session:   a.session,
		Directory: a.directory,
		Lifecycle: a.lifecycle,
		Creator:   a.creator,
		Sensor:    a.sensor,
		Log:       a.log.Named("http"),
	}
	return router.New(e, router.Controllers{
		Session:  dashImp.NewSessionCtrl(d),
		Ghop:     dashImp.NewGhopCtrl(d),
		Exporter: dashImp.NewExporterCtrl(d),
		Buyer:    dashImp.NewBuyerCtrl(d),
		Status:   dashImp.NewStatusCtrl(d),
		Journal:  journalCtrlImp.New(a.journal),
		Health:   healthCtrlImp.NewHealthCtrl(a.db, a.session),
	}, a.session), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.AutoConnect {
		if info, err := a.connect(ctx); err != nil {
			logger.Warn("auto-connect failed; use POST /session/connect", zap.Error(err))
		} else {
			logger.Info("session ready", zap.String("account", info.Account), zap.String("contract", info.Contract))
		}
	}

	e, err := newServer(a)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", ":"+cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
