package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/Zavalalgamer/wialon-backend/config"
	"github.com/Zavalalgamer/wialon-backend/module/core"
)

var _ core.Recorder = (*config.Metrics)(nil)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := config.ConfigureLogging(cfg); err != nil {
		log.Fatalf("logging: %v", err)
	}

	if cfg.WialonToken == "" {
		log.Warn("WIALON_TOKEN is not set, remote calls will fail")
	}

	metrics, err := config.NewMetrics(nil)
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	coreModule := core.Build(core.Options{
		BaseURL:      cfg.WialonBase,
		Token:        cfg.WialonToken,
		LoginTimeout: cfg.LoginTimeout,
		CallTimeout:  cfg.CallTimeout,
		Recorder:     metrics,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), config.RequestLogger(), metrics.Middleware(), config.CORS(cfg))

	health := config.NewHealthChecker(coreModule.Session)
	health.Register(r)
	metrics.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
