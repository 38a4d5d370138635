package main

import (
	"context"
	"flag"
	"time"

	"orderrelay/internal/auth"
	"orderrelay/internal/config"
	"orderrelay/internal/db"
	"orderrelay/internal/models"
	"orderrelay/internal/store"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Bootstraps an admin account. Run once per admin:
//
//	createadmin -email admin@example.com -password secret -name "Ops Admin"
func main() {
	_ = godotenv.Load()

	log := logrus.New()

	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	name := flag.String("name", "", "admin full name")
	flag.Parse()

	if *email == "" || *password == "" || *name == "" {
		log.Fatal("email, password and name are required")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.ManagementDB.DSN)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	defer pool.Close()

	st := store.New(pool)

	if _, err := st.GetAdminByEmail(ctx, *email); err == nil {
		log.WithField("email", *email).Fatal("admin already exists")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.WithError(err).Fatal("password hash failed")
	}

	admin := &models.AdminUser{
		ID:           uuid.NewString(),
		Email:        *email,
		PasswordHash: hash,
		FullName:     *name,
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.InsertAdmin(ctx, admin); err != nil {
		log.WithError(err).Fatal("insert admin failed")
	}
	log.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email}).Info("admin created")
}
