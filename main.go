package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"guevara/ai"
	"guevara/audit"
	"guevara/config"
	"guevara/handlers"
	"guevara/middleware"
	"guevara/routes"
	"guevara/session"
	"guevara/store"
	"guevara/upstream"
	"guevara/workflow"
)

// upstreamTimeout bounds every call to the backend. No retries.
const upstreamTimeout = 10 * time.Second

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional audit trail; the gateway runs fine without it.
	var auditLog *audit.Logger
	if cfg.DatabaseURL != "" {
		auditLog, err = audit.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to connect audit database: %v", err)
		}
		defer auditLog.Close()
	}

	sessions := session.New(cfg.SessionSecret, cfg.SessionTTL)
	client := upstream.New(cfg.UpstreamURL, upstreamTimeout)
	resources := store.New(client, cfg.CacheTTL)
	engine := workflow.New(resources, workflow.LogNotifier{}, auditLog)

	h := &handlers.Handlers{
		Config:   cfg,
		Sessions: sessions,
		Client:   client,
		Store:    resources,
		Engine:   engine,
		Audit:    auditLog,
		AI:       ai.New(cfg.GeminiAPIKey),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: h.ErrorHandler,
	})

	// Add CORS middleware
	app.Use(cors.New())

	guard := &middleware.Guard{Sessions: sessions}
	routes.SetupRoutes(app, h, guard)

	// Start server
	log.Fatal(app.Listen(cfg.ListenAddr))
}
