package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xh3b4sd/loadcast/asset"
	"github.com/xh3b4sd/loadcast/config"
	"github.com/xh3b4sd/loadcast/ctxlog"
	"github.com/xh3b4sd/loadcast/recorder"
	"github.com/xh3b4sd/loadcast/server"
	"github.com/xh3b4sd/loadcast/service"
	"github.com/xh3b4sd/tracer"
)

func serveCommand(pat *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Restore the model and serve the forecast dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*pat)
			if err != nil {
				return tracer.Mask(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := newLogger(cfg, os.Stderr)
	ctx = ctxlog.WithLogger(ctx, log)

	img, err := asset.Read(cfg.LogoPath)
	if err != nil {
		return tracer.Mask(err)
	}

	l := newLoader(cfg)
	defer l.Sigkill()

	{
		log.Info("restoring model", "model", cfg.ModelPath, "port", cfg.Port)

		err := l.Restore(ctx)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var rec service.Recorder
	if cfg.Recorder.Driver != "" {
		r, err := recorder.New(recorder.Config{Driver: cfg.Recorder.Driver, DSN: cfg.Recorder.DSN})
		if err != nil {
			return tracer.Mask(err)
		}
		defer r.Close()

		rec = r
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	eng, err := server.New(server.Config{
		Log: log,
		Lgo: img.URI(),
		Svc: service.New(service.Config{For: l, Rec: rec, Tim: cfg.Timeout}),
		Tit: cfg.Title,
	}).Engine()
	if err != nil {
		return tracer.Mask(err)
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           eng,
		ReadHeaderTimeout: 10 * time.Second,
	}

	don := make(chan error, 1)
	go func() {
		log.Info("serving dashboard", "listen", cfg.Listen, "recorder", cfg.Recorder.Driver)
		don <- srv.ListenAndServe()
	}()

	select {
	case err := <-don:
		if !errors.Is(err, http.ErrServerClosed) {
			return tracer.Mask(err)
		}
	case <-ctx.Done():
		log.Info("shutting down")

		sht, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := srv.Shutdown(sht)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	return nil
}
