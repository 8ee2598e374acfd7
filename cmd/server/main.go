package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smile19439/forum-express-grading/internal/config"
	"github.com/smile19439/forum-express-grading/internal/domain"
	"github.com/smile19439/forum-express-grading/internal/handler"
	"github.com/smile19439/forum-express-grading/internal/reconciler"
	"github.com/smile19439/forum-express-grading/internal/repository"
	"github.com/smile19439/forum-express-grading/internal/service"
	"github.com/smile19439/forum-express-grading/internal/store"
	"github.com/smile19439/forum-express-grading/pkg/database"
	"github.com/smile19439/forum-express-grading/pkg/jwt"
	pkglog "github.com/smile19439/forum-express-grading/pkg/log"
	"github.com/smile19439/forum-express-grading/pkg/middleware"
	"github.com/smile19439/forum-express-grading/pkg/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		ServiceName: "forum-api",
	})
	logger := pkglog.L()
	logger.Info().Msg("starting forum API server")

	// 3. Connect database and run migrations
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.RestaurantModel{},
		&domain.CommentModel{},
		&domain.FavoriteModel{},
		&domain.LikeModel{},
		&domain.FollowshipModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	// 4. Connect Redis follower store (optional)
	var followerStore store.FollowerStore
	if cfg.Redis.Address != "" {
		redisStore, err := store.NewRedisFollowerStore(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, follower counts served from database")
		} else {
			followerStore = redisStore
			defer redisStore.Close()
		}
	}

	// 5. Initialize file storage
	fileStorage, err := newStorage(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// 6. Initialize token manager
	tokens, err := jwt.NewManager(cfg.Auth.AccessDuration, cfg.Auth.RefreshDuration, cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	// 7. Build repositories
	userRepo := repository.NewGormUserRepository(db)
	restaurantRepo := repository.NewGormRestaurantRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	favoriteRepo, err := repository.NewGormRelationRepository(db, domain.RelationFavorite)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build favorite repository")
	}
	likeRepo, err := repository.NewGormRelationRepository(db, domain.RelationLike)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build like repository")
	}
	followRepo, err := repository.NewGormRelationRepository(db, domain.RelationFollowship)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build followship repository")
	}

	// 8. Build services
	userService := service.NewUserService(userRepo, restaurantRepo, commentRepo, favoriteRepo, followRepo, tokens, fileStorage)
	relationService := service.NewRelationService(userRepo, restaurantRepo, favoriteRepo, likeRepo, followRepo, followerStore)
	rankingService := service.NewRankingService(userRepo, restaurantRepo, favoriteRepo, followRepo, followerStore)
	restaurantService := service.NewRestaurantService(restaurantRepo, commentRepo, userRepo, favoriteRepo, likeRepo)

	// 9. Start follower-count reconciler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec *reconciler.Reconciler
	if followerStore != nil {
		rec = reconciler.New(followerStore, followRepo, cfg.Reconciler)
		rec.Start(ctx)
	}

	// 10. Set up HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(pkglog.GinMiddleware(logger))

	if local, ok := fileStorage.(*storage.LocalStorage); ok {
		router.Static("/uploads", local.BasePath())
	}

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	userHandler := handler.NewUserHandler(userService, relationService, rankingService)
	restaurantHandler := handler.NewRestaurantHandler(restaurantService, relationService, rankingService)
	handler.RegisterRoutes(router, authMiddleware, userHandler, restaurantHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// 11. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	cancel()
	if rec != nil {
		rec.Stop()
		<-rec.Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return storage.NewS3Storage(context.Background(), cfg.Storage.S3)
	default:
		return storage.NewLocalStorage(cfg.Storage.Local)
	}
}
