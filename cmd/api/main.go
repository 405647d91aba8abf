package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nexlink/nexlink-backend/internal/config"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/handler"
	"github.com/nexlink/nexlink-backend/internal/middleware"
	"github.com/nexlink/nexlink-backend/internal/push"
	"github.com/nexlink/nexlink-backend/internal/repository"
	"github.com/nexlink/nexlink-backend/internal/routes"
	"github.com/nexlink/nexlink-backend/internal/service"
	"github.com/nexlink/nexlink-backend/internal/ws"
	"github.com/nexlink/nexlink-backend/pkg/jwt"
	pkglogger "github.com/nexlink/nexlink-backend/pkg/logger"
	pkgredis "github.com/nexlink/nexlink-backend/pkg/redis"
	"github.com/nexlink/nexlink-backend/pkg/storage"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	dotenvFiles := config.LoadDotEnv()

	cfg := config.Load()
	pkglogger.InitStructured(cfg.Env)
	log := pkglogger.GetLogger()
	log.Info().Str("env", cfg.Env).Strs("dotenv", dotenvFiles).Msg("starting nexlink-backend")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Redis is optional. Without it the WebSocket hub still works within a
	// single instance, it just doesn't bridge fan-out across instances.
	var redisClient *goredis.Client
	if cfg.RedisHost != "" {
		redisClient, err = pkgredis.NewClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPoolSize)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running single-instance fan-out")
			redisClient = nil
		}
	}

	hub := ws.NewHub(redisClient)
	go hub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	pushRepo := repository.NewPushRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)

	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.AccessTokenTTLMin, cfg.RefreshTokenTTLMin)

	// Web push is disabled unless VAPID keys are configured
	var pushSender push.Sender
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSender = push.NewWebPush(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject)
		log.Info().Msg("web push enabled")
	}
	pusher := service.NewPushDispatcher(pushRepo, pushSender)

	var mediaStorage *storage.S3Client
	if cfg.S3Bucket != "" {
		mediaStorage, err = storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			CDNURL:          cfg.S3CDNURL,
			BasePath:        cfg.S3BasePath,
			ForcePathStyle:  cfg.S3Endpoint != "",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init media storage")
		}
	}

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	conversationService := service.NewConversationService(roomRepo, messageRepo, userRepo, hub)
	messageService := service.NewMessageService(messageRepo, roomRepo, userRepo, hub, pusher)
	notificationService := service.NewNotificationService(notificationRepo, pushRepo, userRepo, hub, pusher)
	userService := service.NewUserService(userRepo, followRepo, notificationService)
	postService := service.NewPostService(postRepo, userRepo, followRepo, notificationService)
	adminService := service.NewAdminService(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(conversationService, messageService, mediaStorage)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	adminHandler := handler.NewAdminHandler(adminService)
	wsHandler := handler.NewWSHandler(hub, roomRepo, cfg.AllowedOrigins)

	authLimiter := middleware.NewRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst, 10*time.Minute)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware(cfg))

	routes.Setup(
		router,
		authHandler,
		chatHandler,
		notificationHandler,
		userHandler,
		postHandler,
		adminHandler,
		wsHandler,
		jwtManager,
		authLimiter,
	)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.ServerAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	hub.Stop()
	authLimiter.Stop()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Info().Msg("stopped")
}

// initDB opens MySQL and migrates the schema. TranslateError is required so
// duplicate-key races surface as gorm.ErrDuplicatedKey.
func initDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Env == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Room{},
		&domain.RoomMember{},
		&domain.Message{},
		&domain.MessageDeletion{},
		&domain.Notification{},
		&domain.PushSubscription{},
		&domain.Follow{},
		&domain.Post{},
		&domain.Comment{},
		&domain.PostLike{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if cfg.AllowedOrigins == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = splitOrigins(cfg.AllowedOrigins)
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	return cors.New(corsConfig)
}

func splitOrigins(origins string) []string {
	var result []string
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
