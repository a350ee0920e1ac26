package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modu-events/lotto-backend/api/routes"
	"github.com/modu-events/lotto-backend/internal/config"
	"github.com/modu-events/lotto-backend/internal/handlers"
	"github.com/modu-events/lotto-backend/internal/repositories"
	mongorepo "github.com/modu-events/lotto-backend/internal/repositories/mongodb"
	"github.com/modu-events/lotto-backend/internal/services"
	"github.com/modu-events/lotto-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var eventRepo repositories.EventRepository = mongorepo.NewEventRepository(db)
	var appRepo repositories.ApplicationRepository = mongorepo.NewApplicationRepository(db)

	// The unique (eventId, userId) index backs the once-per-user guarantee.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := appRepo.EnsureIndexes(indexCtx); err != nil {
		cancelIndex()
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancelIndex()

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	eventService := services.NewEventService(eventRepo, appRepo)
	participationService := services.NewParticipationService(eventRepo, appRepo)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:          handlers.NewAuthHandler(authService),
		EventHandler:         handlers.NewEventHandler(eventService),
		ParticipationHandler: handlers.NewParticipationHandler(participationService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
