package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	notificationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/notification"
	resourceRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/resource"
	templateRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/template"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/notifications"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	"github.com/m04kA/SMC-SchedulingService/internal/service/scheduler"
	"github.com/m04kA/SMC-SchedulingService/internal/service/snapshot"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/migrator"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// Репозитории должны удовлетворять потребителям из всех слоёв одновременно
type resourceStore interface {
	availability.ResourceRepository
	resources.ResourceRepository
	create_appointment.ResourceRepository
	snapshot.ResourceRepository
}

type availabilityStore interface {
	availability.AvailabilityRepository
}

type appointmentStore interface {
	availability.AppointmentRepository
	appointments.AppointmentRepository
	create_appointment.AppointmentRepository
	scheduler.AppointmentRepository
}

type notificationStore interface {
	notifications.NotificationRepository
}

type templateStore interface {
	notifications.TemplateRepository
	notifications.TemplateSeeder
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage набор репозиториев выбранного драйвера
type storage struct {
	resources     resourceStore
	availability  availabilityStore
	appointments  appointmentStore
	notifications notificationStore
	templates     templateStore
	tx            txManager

	close func() error
}

// openStorage создает хранилище по database.driver
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn("Using in-memory storage: data is lost on restart")
		return &storage{
			resources:     memory.NewResourceRepository(),
			availability:  memory.NewAvailabilityRepository(),
			appointments:  memory.NewAppointmentRepository(),
			notifications: memory.NewNotificationRepository(),
			templates:     memory.NewTemplateRepository(),
			tx:            txmanager.NewNoop(),
			close:         func() error { return nil },
		}, nil
	default:
		return openPostgres(cfg, m, stopCh, log)
	}
}

func openPostgres(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrator.Up(cfg.Database.URL(), cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("Migrations applied from %s", cfg.Database.MigrationsPath)
	}

	// Без метрик обёртка просто проксирует вызовы
	var wrapped *dbmetrics.DB
	if m != nil {
		wrapped = dbmetrics.WrapWithDefault(db, m, stopCh)
		log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db, nil)
	}

	return &storage{
		resources:     resourceRepo.NewRepository(wrapped),
		availability:  availabilityRepo.NewRepository(wrapped),
		appointments:  appointmentRepo.NewRepository(wrapped),
		notifications: notificationRepo.NewRepository(wrapped),
		templates:     templateRepo.NewRepository(wrapped),
		tx:            txmanager.NewTransactionManager(wrapped),
		close:         db.Close,
	}, nil
}
