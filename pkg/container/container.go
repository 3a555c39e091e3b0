package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/config"
	infraCache "celebhub-backend/internal/infrastructure/cache"
	"celebhub-backend/internal/infrastructure/queue"
	"celebhub-backend/internal/infrastructure/storage"
	"celebhub-backend/internal/shared/access"
	"celebhub-backend/internal/shared/utils"
	"celebhub-backend/pkg/cache"
	"celebhub-backend/pkg/jwt"

	celebHandler "celebhub-backend/internal/domains/celebrity/handler"
	celebService "celebhub-backend/internal/domains/celebrity/service"
	onboardingHandler "celebhub-backend/internal/domains/onboarding/handler"
	onboardingService "celebhub-backend/internal/domains/onboarding/service"
	"celebhub-backend/internal/domains/payment/gateway/mpesa"
	paymentHandler "celebhub-backend/internal/domains/payment/handler"
	paymentService "celebhub-backend/internal/domains/payment/service"
	submissionHandler "celebhub-backend/internal/domains/submission/handler"
	submissionService "celebhub-backend/internal/domains/submission/service"
	userHandler "celebhub-backend/internal/domains/user/handler"
	userService "celebhub-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Built once per process.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	Stores      *Stores
	Redis       *infraCache.RedisClient // nil when Redis is unreachable
	Cache       cache.Cache
	AsynqClient *asynq.Client
	Enqueuer    *queue.Enqueuer
	Photos      PhotoStorage
	Images      *storage.ImageProcessor
	JWTManager  *jwt.Manager
	Gate        *access.Gate

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService       userService.Service
	CelebrityService  celebService.Service
	SubmissionService submissionService.Service
	OnboardingService onboardingService.Service
	PaymentService    paymentService.InitiationService
	Reconciler        paymentService.Reconciler

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler       *userHandler.UserHandler
	CelebrityHandler  *celebHandler.CelebrityHandler
	SubmissionHandler *submissionHandler.SubmissionHandler
	OnboardingHandler *onboardingHandler.OnboardingHandler
	PaymentHandler    *paymentHandler.PaymentHandler
}

// PhotoStorage is implemented by the MinIO and in-memory storages
type PhotoStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in dependency order:
// config -> infrastructure -> services -> handlers
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Str("env", cfg.App.Environment).Str("backend", cfg.Store.Backend).Msg("Initializing container")

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initServices()
	c.initHandlers()

	log.Info().Msg("Container initialized")
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// ----------------------------------------
	// STORE
	// ----------------------------------------
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	stores, err := OpenStores(connectCtx, cfg, cfg.Store.Backend)
	if err != nil {
		return err
	}
	c.Stores = stores

	// ----------------------------------------
	// REDIS (token cache + job queue)
	// ----------------------------------------
	// Redis is not critical for serving requests: without it the gateway
	// token is cached in process and side effects run inline
	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(connectCtx); err != nil {
		log.Warn().Err(err).Msg("[REDIS] unavailable, using in-process fallbacks")
		_ = redisClient.Close()
		c.Cache = cache.NewMemoryCache()
	} else {
		c.Redis = redisClient
		c.Cache = infraCache.NewRedisCache(redisClient, "celebhub:")
		c.AsynqClient = asynq.NewClient(RedisConnOpt(cfg.Redis))
		c.Enqueuer = queue.NewEnqueuer(c.AsynqClient)
	}

	// ----------------------------------------
	// PHOTO STORAGE
	// ----------------------------------------
	if cfg.Store.Backend == config.BackendMemory {
		c.Photos = storage.NewMemoryStorage()
	} else {
		minio, err := storage.NewMinIOStorage(connectCtx, storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("failed to init photo storage: %w", err)
		}
		c.Photos = minio
	}
	c.Images = storage.NewImageProcessor(cfg.Upload.MaxBytes, cfg.Upload.MaxPixels)

	c.JWTManager = jwt.NewManager(cfg.Session.Secret, cfg.Session.TTL)
	return nil
}

func (c *Container) initServices() {
	cfg := c.Config
	tiktok := utils.TikTokOptions{}

	c.UserService = userService.NewUserService(c.Stores.Users, 0)
	c.Gate = access.NewGate(c.UserService, cfg.Admin.Usernames)

	// Typed nils must not leak into the interfaces below
	var cleaner celebService.PhotoCleaner
	var notifier submissionService.Notifier
	if c.Enqueuer != nil {
		cleaner = c.Enqueuer
		notifier = c.Enqueuer
	}

	c.CelebrityService = celebService.NewCelebrityService(
		c.Stores.Celebrities,
		c.Photos,
		c.Images,
		cleaner,
		celebService.Config{
			FeatureDuration: cfg.MPesa.FeatureDuration(),
			TikTok:          tiktok,
		},
	)

	c.SubmissionService = submissionService.NewSubmissionService(
		c.Stores.Submissions,
		c.CelebrityService,
		notifier,
		tiktok,
	)

	c.OnboardingService = onboardingService.NewOnboardingService(c.Stores.Onboarding)

	gateway := mpesa.NewClient(&mpesa.Config{
		BaseURL:         cfg.MPesa.BaseURL,
		ConsumerKey:     cfg.MPesa.ConsumerKey,
		ConsumerSecret:  cfg.MPesa.ConsumerSecret,
		Passkey:         cfg.MPesa.Passkey,
		Shortcode:       cfg.MPesa.Shortcode,
		CallbackURL:     cfg.MPesa.CallbackURL,
		TransactionDesc: cfg.MPesa.TransactionDesc,
	}, c.Cache)

	c.PaymentService = paymentService.NewInitiationService(c.Stores.Celebrities, gateway)
	c.Reconciler = paymentService.NewReconciler(c.Stores.Celebrities, paymentService.ReconcilerConfig{
		FeatureDuration:     cfg.MPesa.FeatureDuration(),
		FailOnCallbackError: cfg.MPesa.FailOnCallbackErr,
	})
}

func (c *Container) initHandlers() {
	cfg := c.Config

	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Gate, c.JWTManager, userHandler.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	})
	c.CelebrityHandler = celebHandler.NewCelebrityHandler(c.CelebrityService, cfg.Upload.MaxBytes)
	c.SubmissionHandler = submissionHandler.NewSubmissionHandler(c.SubmissionService, cfg.Upload.MaxBytes)
	c.OnboardingHandler = onboardingHandler.NewOnboardingHandler(c.OnboardingService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService, c.Reconciler, cfg.MPesa.CallbackToken)
}

// RedisConnOpt is the asynq connection for the configured Redis
func RedisConnOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Ping reports whether the store and, when configured, Redis answer
func (c *Container) Ping(ctx context.Context) map[string]error {
	checks := map[string]error{"store": c.Stores.Ping(ctx)}
	if c.Redis != nil {
		checks["redis"] = c.Cache.Ping(ctx)
	}
	return checks
}

// Cleanup releases every connection. Safe on a partially built container.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	if c.Stores != nil {
		c.Stores.Close(context.Background())
	}
}
