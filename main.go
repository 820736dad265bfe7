package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "ticketbooking/internal/config"
	router "ticketbooking/internal/http"
	"ticketbooking/internal/http/handlers"
	"ticketbooking/internal/queue"
	"ticketbooking/internal/repositories"
	"ticketbooking/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	fares, err := intconfig.LoadFareTable(env.FareTablePath)
	if err != nil {
		log.Fatalf("failed to load fare table: %v", err)
	}
	log.Printf("fare table loaded: %d cities, %d routes", len(fares.Cities), len(fares.Fares))

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repositories.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("failed to prepare schema: %v", err)
	}
	cancel()

	var sessions services.SessionStore = services.NewMemorySessionStore()
	redisClient := intconfig.NewRedisClient(env)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		sessions = services.RedisSessionStore{Client: redisClient}
		log.Printf("sessions stored in redis %s", env.RedisAddr)
	}

	var events services.EventPublisher = queue.NopPublisher{}
	if env.RabbitMQURL != "" {
		events = queue.RabbitPublisher{URL: env.RabbitMQURL}
		log.Println("booking events published to rabbitmq")
	}

	tokens := services.TokenIssuer{Secret: []byte(env.JWTSecret)}
	policy := services.BookingPolicy{BlockZeroFare: env.BlockZeroFare}

	h := &handlers.Handlers{
		Fares:  fares,
		Policy: policy,
		Auth: services.AuthService{
			Users:         repositories.UserRepository{DB: db},
			Sessions:      sessions,
			Tokens:        tokens,
			SessionTTL:    time.Duration(env.SessionTTLHours) * time.Hour,
			BcryptCost:    env.BcryptCost,
			PublicBaseURL: env.PublicBaseURL,
		},
		Bookings: services.BookingService{
			Repo:   repositories.BookingRepository{DB: db},
			Fares:  fares,
			Policy: policy,
			Events: events,
		},
		Stats: services.StatsService{
			Repo:         repositories.StatsRepository{DB: db},
			SeatCapacity: env.RouteSeatCapacity,
		},
		CookieSecure: env.CookieSecure,
	}

	r := router.NewRouter(env, h, router.Deps{
		Tokens:   tokens,
		Sessions: sessions,
		Redis:    redisClient,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}
