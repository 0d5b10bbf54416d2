package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"lesson-service/internal/api"
	"lesson-service/internal/booking"
	"lesson-service/internal/cache"
	"lesson-service/internal/events"
	"lesson-service/internal/repository"
	"lesson-service/internal/store"
	"lesson-service/internal/tracing"
	"lesson-service/internal/view"
	_ "lesson-service/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables provided by Docker")
	}

	api.SetupGlobalHandler("lessond")

	shutdownTracer, err := tracing.InitTracerProvider("lessond")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()
	log.Println("Successfully connected to NATS.")

	lessonRepo := repository.NewPostgresLessonRepository(db)
	prefRepo := repository.NewPostgresPreferenceRepository(db)
	deviceRepo := repository.NewPostgresDeviceTokenRepository(db)

	ctx := context.Background()

	storeServer := events.NewStoreServer(nc, lessonRepo)
	if err := storeServer.Start(ctx); err != nil {
		log.Fatalf("Failed to start record store server: %v", err)
	}

	source := events.NewServerSource(lessonRepo, storeServer, store.NewNatsSourceConn(nc))

	lessonCache := cache.New(source)
	if err := lessonCache.Start(ctx); err != nil {
		log.Fatalf("Failed to start lesson cache: %v", err)
	}
	defer lessonCache.Stop()

	views := view.NewRegistry(lessonCache)
	coordinator := booking.NewCoordinator(lessonCache, source)
	handler := api.NewLessonHandler(coordinator, views, prefRepo, deviceRepo, storeServer.Publisher())

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "lessond"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")

	lessonRoutes := v1.Group("/lessons")
	lessonRoutes.Use(api.AuthMiddleware())
	lessonRoutes.Get("/mine", handler.MyLessons)
	lessonRoutes.Post("/", handler.BookLesson)
	lessonRoutes.Post("/:id/cancel", handler.CancelLesson)

	prefRoutes := v1.Group("/preferences")
	prefRoutes.Use(api.AuthMiddleware())
	prefRoutes.Get("/", handler.GetPreferences)
	prefRoutes.Put("/", handler.UpdatePreferences)

	deviceRoutes := v1.Group("/devices")
	deviceRoutes.Use(api.AuthMiddleware())
	deviceRoutes.Post("/", handler.RegisterDevice)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8001"
	}

	log.Printf("Listening lessond on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func connectDB() *sqlx.DB {
	db, err := sqlx.Connect("pgx", databaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations() {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", databaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
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
