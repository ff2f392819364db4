package main

import (
	"context"
	"liveroom/internal/cache"
	"liveroom/internal/config"
	"liveroom/internal/repository"
	"liveroom/internal/service"
	"liveroom/internal/transport/rest"
	"liveroom/internal/transport/ws"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub()
	log.Info().Msg("websocket hub started")

	// Repositories
	roomRepo := repository.NewRoomRepo(db)
	userRepo := repository.NewUserRepo(db)
	participantRepo := repository.NewParticipantRepo(db)

	// Caches
	seatCache := cache.NewSeatCache(rdb, cfg.CacheTTL)
	lease := cache.NewReservationLease(rdb, cfg.LeaseTTL)

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	seatSvc := service.NewSeatService(roomRepo, userRepo, seatCache, lease)
	specialSvc := service.NewSpecialSeatService(roomRepo, userRepo)
	pkSvc := service.NewPkService(roomRepo, seatSvc)
	roomSvc := service.NewRoomService(roomRepo, participantRepo, seatCache)
	presenceSvc := service.NewPresenceService(roomRepo, userRepo, participantRepo, seatSvc, roomSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	roomSvc.SetBroadcaster(wsHub)
	seatSvc.SetBroadcaster(wsHub)
	pkSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:        authSvc,
		AdminSecret:        cfg.AdminSecret,
		RoomService:        roomSvc,
		SeatService:        seatSvc,
		SpecialSeatService: specialSvc,
		PkService:          pkSvc,
		PresenceService:    presenceSvc,
		WSHub:              wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
