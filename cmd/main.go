package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	addAvailabilityExceptionHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/add_availability_exception"
	cancelAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_appointment"
	checkAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/check_availability"
	completeAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/complete_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment"
	getAppointmentNotificationsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment_notifications"
	getAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability"
	getCustomerStatsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_customer_stats"
	getNotificationsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_notifications"
	replaceAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/replace_availability"
	retryNotificationsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/retry_notifications"
	updateAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_appointment"
	updateResourceStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_resource_status"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/eventsink"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/reminders"
	customerServiceClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/customerservice"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/email"
	merchantServiceClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/merchantservice"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/sms"
	appointmentsService "github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	appointmentsModels "github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	notificationsService "github.com/m04kA/SMC-SchedulingService/internal/service/notifications"
	resourcesService "github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	"github.com/m04kA/SMC-SchedulingService/internal/service/scheduler"
	"github.com/m04kA/SMC-SchedulingService/internal/service/snapshot"
	createAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// Имена фоновых задач
const (
	jobNoShowScan        = "no_show_scan"
	jobReminderScan      = "reminder_scan"
	jobNotificationRetry = "notification_retry"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone: %v", err)
	}

	// Инициализируем метрики (если включены). nil-коллектор безопасен для всех вызовов.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()
	log.Info("Storage initialized (driver=%s)", cfg.Database.Driver)

	// Стандартные шаблоны уведомлений, включается явно
	if cfg.Notifications.SeedDefaultTemplates {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := notificationsService.SeedDefaultTemplates(seedCtx, store.templates,
			cfg.Notifications.SeedTenantIDs, notificationsService.RealTimeProvider{}, log)
		cancelSeed()
		if err != nil {
			log.Fatal("Failed to seed default templates: %v", err)
		}
	}

	// Отметки об отправленных напоминаниях
	markerTTL := time.Duration(cfg.Redis.ReminderMarkerTTL) * time.Second
	var marker scheduler.ReminderMarker = reminders.NewMemoryMarker(markerTTL)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancelPing()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		marker = reminders.NewRedisMarker(redisClient, markerTTL)
		log.Info("Reminder markers stored in redis (addr=%s)", cfg.Redis.Addr)
	}

	// Инициализируем интеграционных клиентов
	customerClient := customerServiceClient.NewClient(
		cfg.CustomerService.URL,
		time.Duration(cfg.CustomerService.Timeout)*time.Second,
		log,
	)
	merchantClient := merchantServiceClient.NewClient(
		cfg.MerchantService.URL,
		time.Duration(cfg.MerchantService.Timeout)*time.Second,
		merchantServiceClient.BusinessProfile{
			Name:    cfg.Business.Name,
			Address: cfg.Business.Address,
			Phone:   cfg.Business.Phone,
		},
		log,
	)
	log.Info("Integration clients initialized (CustomerService=%s timeout=%ds, MerchantService=%s timeout=%ds)",
		cfg.CustomerService.URL, cfg.CustomerService.Timeout, cfg.MerchantService.URL, cfg.MerchantService.Timeout)

	// Провайдеры доставки
	var smsSender notificationsService.SMSSender = sms.NewMockSender(log)
	if cfg.SMS.Enabled && cfg.SMS.Provider == config.SMSProviderWebhook {
		smsSender = sms.NewWebhookSender(
			cfg.SMS.WebhookURL,
			cfg.SMS.WebhookToken,
			time.Duration(cfg.Notifications.ProviderTimeout)*time.Second,
			log,
		)
	}
	var emailSender notificationsService.EmailSender = email.NewMockSender(log)
	if cfg.Email.Enabled && cfg.Email.Provider == config.EmailProviderSMTP {
		emailSender = email.NewSMTPSender(
			cfg.Email.Host,
			cfg.Email.Port,
			cfg.Email.From,
			cfg.Email.Username,
			cfg.Email.Password,
			log,
		)
	}
	log.Info("Notification providers: sms=%s, email=%s", smsSender.ProviderID(), emailSender.ProviderID())

	// Шина событий и публикация снимков
	bus := events.NewBus(cfg.Notifications.EventBufferSize, cfg.Notifications.EventWorkers, log)
	builder := snapshot.NewBuilder(store.resources, customerClient, merchantClient, snapshot.RealTimeProvider{}, log)
	emitter := snapshot.NewEmitter(builder, bus)

	// Уведомления
	dispatcher := notificationsService.NewDispatcher(
		smsSender,
		emailSender,
		time.Duration(cfg.Notifications.ProviderTimeout)*time.Second,
		log,
	)
	orchestrator := notificationsService.NewOrchestrator(
		store.notifications,
		store.templates,
		dispatcher,
		metricsCollector,
		notificationsService.RealTimeProvider{},
		notificationsService.OrchestratorConfig{
			DefaultRegion: cfg.Notifications.DefaultCountry,
			NoShowPolicy:  notificationsService.NoShowPolicy(cfg.Scheduling.NoShowNotification),
		},
		log,
	)
	bus.Subscribe("notifications", orchestrator)

	var kafkaSink *eventsink.KafkaSink
	if cfg.Kafka.Enabled {
		kafkaSink = eventsink.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		bus.Subscribe("kafka", kafkaSink)
		log.Info("Lifecycle events mirrored to kafka topic %s", cfg.Kafka.Topic)
	}

	retrySupervisor := notificationsService.NewRetrySupervisor(
		store.notifications,
		dispatcher,
		metricsCollector,
		notificationsService.RealTimeProvider{},
		notificationsService.RetryConfig{
			MaxAttempts:    cfg.Notifications.RetryMaxAttempts,
			InitialBackoff: time.Duration(cfg.Notifications.RetryInitialBackoff) * time.Second,
			MaxBackoff:     time.Duration(cfg.Notifications.RetryMaxBackoff) * time.Second,
			BatchSize:      cfg.Notifications.RetryBatchSize,
		},
		log,
	)
	notificationQueries := notificationsService.NewQueryService(store.notifications, log)

	// Инициализируем сервисы
	locker := keylock.New()
	pastBookingGrace := time.Duration(cfg.Scheduling.PastBookingGraceMinutes) * time.Minute

	availabilitySvc := availabilityService.NewService(
		store.resources,
		store.availability,
		store.appointments,
		store.tx,
		availabilityService.RealTimeProvider{},
		log,
	)
	resourcesSvc := resourcesService.NewService(store.resources, availabilityService.RealTimeProvider{}, log)
	appointmentsSvc := appointmentsService.NewService(
		store.appointments,
		availabilitySvc,
		locker,
		store.tx,
		emitter,
		metricsCollector,
		availabilityService.RealTimeProvider{},
		appointmentsModels.Config{Location: location, PastBookingGrace: pastBookingGrace},
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		store.appointments,
		store.resources,
		availabilitySvc,
		merchantClient,
		locker,
		store.tx,
		emitter,
		metricsCollector,
		createAppointmentUC.Config{Location: location, PastBookingGrace: pastBookingGrace},
		log,
	)

	// Фоновые задачи
	overdueScanner := scheduler.NewOverdueScanner(
		store.appointments,
		emitter,
		metricsCollector,
		scheduler.RealTimeProvider{},
		scheduler.OverdueConfig{
			Location: location,
			Grace:    time.Duration(cfg.Scheduling.NoShowGraceHours) * time.Hour,
		},
		log,
	)
	reminderScanner := scheduler.NewReminderScanner(
		store.appointments,
		marker,
		emitter,
		scheduler.RealTimeProvider{},
		scheduler.ReminderConfig{
			Location:  location,
			LeadLong:  time.Duration(cfg.Scheduling.ReminderLeadLongMinutes) * time.Minute,
			LeadShort: time.Duration(cfg.Scheduling.ReminderLeadShortMinutes) * time.Minute,
		},
		log,
	)

	runner := scheduler.NewRunner(metricsCollector, log)
	runner.Register(scheduler.Job{
		Name:     jobNoShowScan,
		Interval: time.Duration(cfg.Scheduling.OverdueScanInterval) * time.Second,
		Run:      overdueScanner.Run,
	})
	runner.Register(scheduler.Job{
		Name:     jobReminderScan,
		Interval: time.Duration(cfg.Scheduling.ReminderScanInterval) * time.Second,
		Run:      reminderScanner.Run,
	})
	runner.Register(scheduler.Job{
		Name:     jobNotificationRetry,
		Interval: time.Duration(cfg.Notifications.RetryInterval) * time.Second,
		Run:      retrySupervisor.Run,
	})

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentsSvc, log)
	getAppointmentNotifications := getAppointmentNotificationsHandler.NewHandler(notificationQueries, log)
	getCustomerStats := getCustomerStatsHandler.NewHandler(appointmentsSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	replaceAvailability := replaceAvailabilityHandler.NewHandler(availabilitySvc, log)
	addAvailabilityException := addAvailabilityExceptionHandler.NewHandler(availabilitySvc, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateResourceStatus := updateResourceStatusHandler.NewHandler(resourcesSvc, log)
	getNotifications := getNotificationsHandler.NewHandler(notificationQueries, log)
	retryNotifications := retryNotificationsHandler.NewHandler(runner, jobNotificationRetry, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix, все маршруты требуют X-Tenant-ID
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Tenant)

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/notifications", getAppointmentNotifications.Handle).Methods(http.MethodGet)

	// --- Клиенты ---
	api.HandleFunc("/customers/{customerId}/appointment-stats", getCustomerStats.Handle).Methods(http.MethodGet)

	// --- Ресурсы и расписание ---
	api.HandleFunc("/resources/{resourceId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/availability", replaceAvailability.Handle).Methods(http.MethodPut)
	api.HandleFunc("/resources/{resourceId}/availability/exceptions", addAvailabilityException.Handle).Methods(http.MethodPost)
	api.HandleFunc("/resources/{resourceId}/availability/check", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/status", updateResourceStatus.Handle).Methods(http.MethodPatch)

	// --- Уведомления ---
	api.HandleFunc("/notifications", getNotifications.Handle).Methods(http.MethodGet)
	api.HandleFunc("/notifications/retry", retryNotifications.Handle).Methods(http.MethodPost)

	// Фоновые процессы: шина живёт дольше задач, чтобы доставить их события
	busCtx, stopBus := context.WithCancel(context.Background())
	jobsCtx, stopJobs := context.WithCancel(context.Background())

	var busGroup errgroup.Group
	busGroup.Go(func() error { return bus.Run(busCtx) })

	var jobsGroup errgroup.Group
	jobsGroup.Go(func() error { return runner.Run(jobsCtx) })

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Порядок важен: задачи, затем публикация снимков, затем шина
	stopJobs()
	if err := jobsGroup.Wait(); err != nil {
		log.Error("Scheduler stopped with error: %v", err)
	}
	emitter.Wait()
	stopBus()
	if err := busGroup.Wait(); err != nil {
		log.Error("Event bus stopped with error: %v", err)
	}

	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			log.Error("Failed to close kafka writer: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
