package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitclub/internal/admin"
	"fitclub/internal/booking"
	"fitclub/internal/config"
	"fitclub/internal/db"
	"fitclub/internal/events"
	"fitclub/internal/ledger"
	"fitclub/internal/logger"
	"fitclub/internal/member"
	"fitclub/internal/notify"
	"fitclub/internal/plan"
	"fitclub/internal/report"
	"fitclub/internal/server"
	"fitclub/internal/staff"
	"fitclub/internal/supplement"
)

// staffDirectory lets the booking service resolve staff through the staff
// service, which itself needs the booking service for cascades.
type staffDirectory struct {
	staff staff.Service
}

func (d *staffDirectory) LookupStaff(ctx context.Context, name string) (*booking.StaffRef, error) {
	return d.staff.LookupStaff(ctx, name)
}

// @title FitClub API
// @version 1.0
// @description Gym memberships, staff and session bookings.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting FitClub", "env", cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	database, err := db.Connect(connectCtx, cfg.DatabaseURL)
	connectCancel()
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	var publisher events.Publisher = events.NopPublisher{}
	if amqpPublisher, err := events.Dial(cfg.AMQPURL); err != nil {
		logger.Warn("Event publishing disabled", "error", err.Error())
	} else {
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		logger.Info("Event publisher connected")
	}

	notifier := notify.New(notify.Options{
		From:      cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
		SMTPHost:  cfg.SMTPHost,
		SMTPPort:  cfg.SMTPPort,
		SMTPUser:  cfg.SMTPUser,
		SMTPPass:  cfg.SMTPPass,
		RedisAddr: cfg.RedisAddr,
	})
	defer notifier.Close()
	go notifier.Start(ctx)
	logger.Info("Notification worker started")

	members := member.NewRepository(database)
	subscriptions := ledger.NewService(ledger.NewRepository(database), publisher, nil)

	directory := &staffDirectory{}
	bookings := booking.NewService(booking.NewRepository(database), directory, publisher, nil)
	staffService := staff.NewService(staff.NewRepository(database), bookings, publisher, nil)
	directory.staff = staffService

	plans := plan.NewService(plan.NewRepository(database), nil)
	memberService := member.NewService(members, subscriptions, bookings, cfg.JWTSecret, nil)
	adminService := admin.NewService(admin.Deps{
		Subscriptions: subscriptions,
		Bookings:      bookings,
		Members:       members,
		Log:           admin.NewActionLog(database),
		Notifier:      notifier,
		Publisher:     publisher,
	})
	reports := report.NewService(report.NewRepository(database), plans)
	supplements := supplement.NewService(supplement.NewRepository(database), publisher, nil)

	srv := server.New(cfg, server.Handlers{
		Members:       member.NewHandler(memberService),
		Plans:         plan.NewHandler(plans),
		Subscriptions: ledger.NewHandler(subscriptions),
		Staff:         staff.NewHandler(staffService),
		Bookings:      booking.NewHandler(bookings, notifier),
		Admin:         admin.NewHandler(adminService),
		Reports:       report.NewHandler(reports, nil),
		Supplements:   supplement.NewHandler(supplements),
	}, map[string]server.Check{
		"database": database.PingContext,
		"redis":    notifier.Ping,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		serverErr <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Errorf("Server error: %v", err)
		}
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
