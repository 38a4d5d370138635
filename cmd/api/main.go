package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderrelay/internal/auth"
	"orderrelay/internal/config"
	"orderrelay/internal/db"
	internalhttp "orderrelay/internal/http"
	"orderrelay/internal/notify"
	"orderrelay/internal/services"
	"orderrelay/internal/store"
	"orderrelay/internal/upstream"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load("")
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	ctx := context.Background()
	managementPool, err := db.Connect(ctx, cfg.ManagementDB.DSN)
	if err != nil {
		log.WithError(err).Fatal("management db connect failed")
	}
	defer managementPool.Close()

	upstreamPool, err := db.Connect(ctx, cfg.UpstreamDB.DSN)
	if err != nil {
		log.WithError(err).Fatal("upstream db connect failed")
	}
	defer upstreamPool.Close()

	st := store.New(managementPool)
	up := upstream.New(upstreamPool)
	pushClient := notify.NewClient(cfg.Push.URL, time.Duration(cfg.Push.TimeoutSeconds)*time.Second)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	directory := &services.OwnerDirectory{Store: st}
	authSvc := &services.AuthService{Owners: st, Admins: st, Tokens: tokens}
	approvalSvc := &services.ApprovalService{
		Store:                 st,
		DefaultCommissionRate: cfg.Earnings.DefaultCommissionRate,
		Log:                   log,
	}
	ingestSvc := &services.IngestService{
		Store:     st,
		Directory: directory,
		Notifier:  pushClient,
		Validate:  validator.New(validator.WithRequiredStructEnabled()),
		Log:       log,
	}
	lifecycleSvc := &services.LifecycleService{
		Store:    st,
		Upstream: up,
		Window:   time.Duration(cfg.Orders.AutoRejectMinutes) * time.Minute,
		Log:      log,
	}
	earningsSvc := &services.EarningsService{
		Store:                 st,
		DefaultCommissionRate: cfg.Earnings.DefaultCommissionRate,
	}

	h := internalhttp.NewHandler(authSvc, approvalSvc, ingestSvc, lifecycleSvc, earningsSvc, up, cfg.Webhook.APIKey, log)
	srv := internalhttp.NewServer(h, cfg.Server.CORSOrigins)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router,
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("api listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
