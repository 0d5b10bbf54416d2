package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"lesson-service/internal/api"
	"lesson-service/internal/cache"
	"lesson-service/internal/model"
	"lesson-service/internal/reminder"
	"lesson-service/internal/repository"
	"lesson-service/internal/store"
)

func main() {
	godotenv.Load(".env.dev")

	api.SetupGlobalHandler("reminder-worker")

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		log.Fatal("NATS_URL environment variable is not set")
	}

	db, err := sqlx.Connect("pgx", databaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Reminder worker connected to the database.")

	prefRepo := repository.NewPostgresPreferenceRepository(db)
	deviceRepo := repository.NewPostgresDeviceTokenRepository(db)

	source, err := store.NewNatsSource(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer source.Close()

	notifier, err := reminder.NewAPNSNotifierFromEnv(deviceRepo)
	if err != nil {
		log.Fatalf("Failed to initialize APNs: %v", err)
	}

	// one timer sink per user: trigger ids are only unique per (lesson, offset)
	fleet := reminder.NewFleet(func(string) reminder.TriggerSink {
		return reminder.NewTimerSink(notifier)
	}, prefRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lessonCache := cache.New(source)
	lessonCache.SetApplyHook(func(lessons []model.Lesson) {
		fleet.Apply(ctx, lessons)
	})
	if err := lessonCache.Start(ctx); err != nil {
		log.Fatalf("Failed to start lesson cache: %v", err)
	}
	defer lessonCache.Stop()

	prefSub, err := source.SubscribePreferences(func(userID string) {
		fleet.ReloadPreferences(ctx, userID)
	})
	if err != nil {
		log.Fatalf("Failed to subscribe to preference changes: %v", err)
	}
	defer prefSub.Unsubscribe()

	log.Println("Reminder worker started, waiting for lesson snapshots...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down reminder worker...")
}

func databaseURL() string {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}
