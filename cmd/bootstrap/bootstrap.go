package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vetcare-backend/config"
	deliveryHttp "vetcare-backend/internal/delivery/http"
	"vetcare-backend/internal/delivery/http/handler"
	"vetcare-backend/internal/delivery/http/middleware"
	"vetcare-backend/internal/infrastructure/cache"
	"vetcare-backend/internal/infrastructure/database"
	"vetcare-backend/internal/infrastructure/messaging"
	"vetcare-backend/internal/infrastructure/storage"
	"vetcare-backend/internal/repository"
	"vetcare-backend/internal/service"
	"vetcare-backend/internal/usecase"
	"vetcare-backend/pkg/jwt"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	MongoClient *mongo.Client
	RabbitConn  *amqp.Connection
	RabbitChan  *amqp.Channel
	Server      *http.Server
}

// infra groups the optional adapters chosen at startup
type infra struct {
	publisher service.EventPublisher
	storage   service.AttachmentStorage
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.App)
	app.Log.Info("Configuration loaded successfully")

	response.SetExposeErrors(!cfg.App.IsProduction())

	ctx := context.Background()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		return nil, err
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.RedisClient = redisClient

	// Initialize MongoDB
	mongoClient, err := database.NewMongoConnection(ctx, cfg.Mongo)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.MongoClient = mongoClient

	mongoDB := mongoClient.Database(cfg.Mongo.Database)
	if err := repository.EnsureChatIndexes(ctx, mongoDB); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create chat indexes: %w", err)
	}

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(metricsRegistry)

	adapters, err := app.initializeInfra(ctx, metrics)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize all layers
	server, err := app.initializeServer(mongoDB, metrics, metricsRegistry, adapters)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures a JSON logrus logger at the configured level
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initializeInfra connects the optional broker and object store, falling back
// to no-op adapters when they are not configured.
func (app *App) initializeInfra(ctx context.Context, metrics *service.Metrics) (*infra, error) {
	cfg := app.Config
	adapters := &infra{
		publisher: service.NewNoopPublisher(app.Log),
		storage:   service.NewDisabledStorage(),
	}

	if cfg.RabbitMQ.Enabled() {
		conn, ch, err := messaging.NewRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		app.RabbitConn, app.RabbitChan = conn, ch
		adapters.publisher = service.NewRabbitPublisher(conn, ch, cfg.RabbitMQ.Exchange, metrics, app.Log)
	} else {
		app.Log.Warn("RabbitMQ not configured, domain events will be dropped")
	}

	if cfg.Minio.Enabled() {
		client, err := storage.NewMinioClient(ctx, cfg.Minio)
		if err != nil {
			return nil, err
		}
		adapters.storage = service.NewMinioStorage(client, cfg.Minio.Bucket, cfg.Minio.URLExpiry)
	} else {
		app.Log.Warn("MinIO not configured, medical record attachments are disabled")
	}

	return adapters, nil
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(
	mongoDB *mongo.Database,
	metrics *service.Metrics,
	registry *prometheus.Registry,
	adapters *infra,
) (*http.Server, error) {
	cfg := app.Config
	db := app.DB
	log := app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	ownerRepo := repository.NewOwnerRepository()
	vetRepo := repository.NewVeterinarianRepository()
	membershipRepo := repository.NewClinicMembershipRepository()
	clinicRepo := repository.NewClinicRepository()
	staffRepo := repository.NewClinicStaffRepository()
	petRepo := repository.NewPetRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	recordRepo := repository.NewMedicalRecordRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	chatRepo := repository.NewChatMessageRepository(mongoDB)

	// Initialize services
	authz, err := service.NewAuthorizer(log)
	if err != nil {
		return nil, fmt.Errorf("failed to load authorization policy: %w", err)
	}
	tokens := service.NewRedisTokenStore(app.RedisClient)
	resolver := service.NewIdentityResolver(db, log, jwtService, tokens, ownerRepo, vetRepo)
	auditService := service.NewAuditService(log, auditLogRepo)
	renderer := service.NewPrescriptionRenderer()
	slotLocker := service.NewRedisSlotLocker(app.RedisClient, log)

	knowledge, err := service.NewKnowledgeBase(cfg.KnowledgeBase.Path)
	if err != nil {
		return nil, err
	}
	log.Infof("Knowledge base loaded with %d entries", knowledge.Size())

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, ownerRepo, vetRepo, auditService, jwtService, tokens)
	ownerUsecase := usecase.NewOwnerUsecase(db, log, ownerRepo, auditService, tokens)
	vetUsecase := usecase.NewVeterinarianUsecase(db, log, vetRepo, membershipRepo, clinicRepo, authz, auditService, tokens)
	clinicUsecase := usecase.NewClinicUsecase(db, log, clinicRepo, staffRepo, vetRepo, membershipRepo, ownerRepo, petRepo, appointmentRepo, authz, auditService)
	petUsecase := usecase.NewPetUsecase(db, log, petRepo, clinicRepo, authz, auditService, adapters.publisher)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, petRepo, clinicRepo, vetRepo, membershipRepo, authz, auditService, adapters.publisher, slotLocker, metrics)
	recordUsecase := usecase.NewMedicalRecordUsecase(db, log, recordRepo, petRepo, appointmentRepo, authz, auditService, adapters.storage)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, prescriptionRepo, recordRepo, petRepo, vetRepo, clinicRepo, authz, auditService, renderer, adapters.storage)
	chatUsecase := usecase.NewChatUsecase(db, log, chatRepo, petRepo, authz, adapters.publisher)
	chatbotUsecase := usecase.NewChatbotUsecase(log, knowledge, authz)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo, authz)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:          handler.NewAuthHandler(authUsecase, customValidator),
		Owner:         handler.NewOwnerHandler(ownerUsecase, customValidator),
		Veterinarian:  handler.NewVeterinarianHandler(vetUsecase, customValidator),
		Clinic:        handler.NewClinicHandler(clinicUsecase, customValidator),
		Pet:           handler.NewPetHandler(petUsecase, customValidator),
		Appointment:   handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		MedicalRecord: handler.NewMedicalRecordHandler(recordUsecase, customValidator),
		Prescription:  handler.NewPrescriptionHandler(prescriptionUsecase, customValidator),
		Chat:          handler.NewChatHandler(chatUsecase, chatbotUsecase, customValidator),
		AuditLog:      handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, deliveryHttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		Gatherer:       registry,
		AuthMiddleware: middleware.NewAuthMiddleware(resolver, metrics),
		CORSMiddleware: middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins),
		LoginLimiter:   middleware.LoginRateLimit(cfg.RateLimit.LoginRequests, cfg.RateLimit.LoginWindow),
	})

	// Create server
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, mongo, rabbitmq)
func (app *App) Close() {
	if app.RabbitChan != nil {
		app.RabbitChan.Close()
	}
	if app.RabbitConn != nil {
		app.RabbitConn.Close()
	}

	if app.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := app.MongoClient.Disconnect(ctx); err != nil {
			logrus.Warnf("Failed to disconnect mongo: %v", err)
		}
		cancel()
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
