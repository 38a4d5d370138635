package main

import (
	"context"
	"time"

	"orderrelay/internal/config"
	"orderrelay/internal/db"
	"orderrelay/internal/services"
	"orderrelay/internal/store"
	"orderrelay/internal/upstream"
	"orderrelay/internal/worker"

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

	lifecycleSvc := &services.LifecycleService{
		Store:    st,
		Upstream: up,
		Window:   time.Duration(cfg.Orders.AutoRejectMinutes) * time.Minute,
		Log:      log,
	}

	w := &worker.Worker{
		Lifecycle: lifecycleSvc,
		Interval:  time.Duration(cfg.Worker.SweepIntervalSeconds) * time.Second,
		Log:       log,
	}

	log.WithField("interval_seconds", cfg.Worker.SweepIntervalSeconds).Info("sweep worker started")
	w.Run(ctx)
}
