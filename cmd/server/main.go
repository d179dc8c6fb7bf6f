package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"commonroom-backend-go/internal/api"
	"commonroom-backend-go/internal/config"
	"commonroom-backend-go/internal/core"
	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/middleware"
	"commonroom-backend-go/internal/payments"
	"commonroom-backend-go/internal/storage"
	"commonroom-backend-go/pkg/cache"
	"commonroom-backend-go/pkg/mailer"
	"commonroom-backend-go/pkg/messagequeue"
)

func main() {
	// Load a local .env in development; release deployments use real env vars.
	if strings.ToLower(os.Getenv("GIN_MODE")) != "release" {
		_ = godotenv.Load()
	}

	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (Firestore, Auth, Storage) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	firestoreClient := db.GetFirestoreClient()
	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if db.GetFirebaseAuthClient() == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}

	// --- 4. Object storage (degrades to 501 responses when unconfigured) ---
	signedTTL := time.Duration(appConfig.SignedURLTTLMinutes) * time.Minute
	storageService, err := storage.NewService(initCtx, db.GetFirebaseApp(), appConfig.StorageBucket, signedTTL)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize storage service", zap.Error(err))
	}
	if appConfig.StorageBucket == "" {
		zapLogger.Warn("STORAGE_BUCKET not configured; uploads and signed URLs are disabled.")
	}

	// --- 5. Optional infrastructure: cache, message queue, mailer ---
	var urlCache cache.Cache = cache.Noop{}
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Warn("Redis cache unavailable; continuing without caching", zap.Error(err))
		} else {
			urlCache = redisCache
			zapLogger.Info("Redis cache connected", zap.String("addr", appConfig.RedisAddr))
		}
	}

	var queue messagequeue.MessageQueue = messagequeue.Noop{}
	if appConfig.AMQPURL != "" {
		mq, err := messagequeue.NewRabbitMQ(appConfig.AMQPURL)
		if err != nil {
			zapLogger.Warn("RabbitMQ unavailable; settlement events disabled", zap.Error(err))
		} else {
			queue = mq
			defer queue.Close()
			zapLogger.Info("RabbitMQ connected.")
		}
	}

	receiptMailer := mailer.New(mailer.Config{
		Host:   appConfig.SMTPHost,
		Port:   appConfig.SMTPPort,
		User:   appConfig.SMTPUser,
		Pass:   appConfig.SMTPPass,
		Sender: appConfig.SMTPSender,
	})
	if !receiptMailer.Configured() {
		zapLogger.Warn("SMTP not configured; receipt emails disabled.")
	}

	// --- 6. Payment gateway ---
	var gateway payments.Gateway
	if appConfig.MidtransServerKey != "" {
		gateway = payments.NewMidtransGateway(appConfig.MidtransServerKey, appConfig.MidtransEnv)
		zapLogger.Info("Midtrans gateway configured", zap.String("env", appConfig.MidtransEnv))
	} else {
		gateway = payments.NewMockGateway()
		zapLogger.Warn("MIDTRANS_SERVER_KEY not configured; using mock payment gateway. Paid checkouts will not charge anyone.")
	}

	// --- 7. Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	auditRepo := db.NewFirestoreAuditRepository(firestoreClient)
	platformRepo := db.NewFirestorePlatformRepository(firestoreClient)
	memberRepo := db.NewFirestoreMemberRepository(firestoreClient)
	communityRepo := db.NewFirestoreCommunityRepository(firestoreClient)
	membershipTypeRepo := db.NewFirestoreMembershipTypeRepository(firestoreClient)
	postRepo := db.NewFirestorePostRepository(firestoreClient)
	forumRepo := db.NewFirestoreForumRepository(firestoreClient)
	chatRepo := db.NewFirestoreChatRepository(firestoreClient)
	courseRepo := db.NewFirestoreCourseRepository(firestoreClient)
	paymentRepo := db.NewFirestorePaymentRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 8. Services ---
	auditService := core.NewAuditService(auditRepo)
	userService := core.NewUserService(userRepo)
	platformService := core.NewPlatformService(platformRepo, memberRepo, auditService)
	communityService := core.NewCommunityService(platformRepo, memberRepo, communityRepo, courseRepo, auditService)
	membershipTypeService := core.NewMembershipTypeService(platformRepo, memberRepo, membershipTypeRepo, auditService)
	postService := core.NewPostService(platformRepo, memberRepo, postRepo, userRepo, auditService)
	forumService := core.NewForumService(platformRepo, memberRepo, forumRepo, userRepo)
	chatService := core.NewChatService(platformRepo, memberRepo, chatRepo, userRepo)
	courseService := core.NewCourseService(platformRepo, memberRepo, courseRepo, storageService, urlCache, auditService)
	checkoutService := core.NewCheckoutService(
		platformRepo, communityRepo, membershipTypeRepo, memberRepo, paymentRepo, userRepo,
		gateway, auditService, queue, receiptMailer,
	)
	zapLogger.Info("Core services initialized successfully.")

	// --- 9. Gin engine and global middleware ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// Order matters: log every request, recover from panics, then CORS.
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	// --- 10. Routes ---
	api.SetupRoutes(router, zapLogger, api.Services{
		User:           userService,
		Platform:       platformService,
		Community:      communityService,
		MembershipType: membershipTypeService,
		Post:           postService,
		Forum:          forumService,
		Chat:           chatService,
		Course:         courseService,
		Checkout:       checkoutService,
		Storage:        storageService,
		URLCache:       urlCache,
	})

	// --- 11. HTTP server with graceful shutdown ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
