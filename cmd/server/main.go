package main

import (
	"log"
	"time"

	"jurisai-api/internal/api"
	"jurisai-api/internal/config"
	"jurisai-api/internal/database"
	"jurisai-api/internal/orchestrator"
	"jurisai-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the orchestrator (optional - submissions are rejected
	// with 503 until an LLM backend is configured)
	var orch orchestrator.Orchestrator
	if cfg.Anthropic.APIKey != "" || cfg.Anthropic.UseBedrock || cfg.OpenAI.APIKey != "" {
		client, err := orchestrator.NewClient(cfg.Anthropic, cfg.OpenAI, "schemas/advice_schema.json")
		if err != nil {
			log.Printf("WARNING: Failed to initialize orchestrator: %v", err)
		} else {
			orch = client
			log.Printf("Orchestrator initialized")
		}
	} else {
		log.Printf("WARNING: No LLM backend configured, task submissions will be rejected")
	}

	// Initialize MongoDB client (optional - for task archival)
	var mongoClient *database.MongoDBClient
	if cfg.MongoDB.URI != "" || cfg.MongoDB.Host != "" {
		log.Printf("Initializing MongoDB connection (Host: %s, Port: %s, Database: %s)",
			cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
		mongoClient, err = database.NewMongoDBClient(cfg.MongoDB)
		if err != nil {
			log.Printf("WARNING: Failed to connect to MongoDB (task archival disabled): %v", err)
			mongoClient = nil
		} else {
			log.Printf("Successfully connected to MongoDB for task archival")
			defer mongoClient.Close()
		}
	} else {
		log.Printf("MongoDB not configured (Host and URI are empty), task archival disabled")
	}

	// Initialize InfluxDB client (optional - for task metrics)
	var influxClient *database.InfluxClient
	if cfg.InfluxDB.URL != "" {
		influxClient, err = database.NewInfluxClient(
			cfg.InfluxDB.URL,
			cfg.InfluxDB.Token,
			cfg.InfluxDB.Org,
			cfg.InfluxDB.Bucket,
		)
		if err != nil {
			log.Printf("WARNING: Failed to connect to InfluxDB (task metrics disabled): %v", err)
			influxClient = nil
		} else {
			defer influxClient.Close()
		}
	} else {
		log.Printf("InfluxDB not configured, task metrics disabled")
	}

	// Initialize S3 storage (optional - for uploaded documents)
	var storageService *services.StorageService
	if cfg.S3.Bucket != "" {
		storageService, err = services.NewStorageService(cfg.S3)
		if err != nil {
			log.Printf("WARNING: Failed to initialize S3 storage (document storage disabled): %v", err)
			storageService = nil
		} else {
			log.Printf("S3 document storage initialized (bucket: %s)", cfg.S3.Bucket)
		}
	} else {
		log.Printf("S3 not configured, uploaded documents are not persisted")
	}

	// Initialize email service (optional - for intake notifications)
	var emailService *services.EmailService
	if cfg.Email.APIKey != "" {
		emailService = services.NewEmailService(cfg.Email)
	} else {
		log.Printf("SendGrid API key not configured, intake notifications disabled")
	}

	pdfService := services.NewPDFService()
	taskService := services.NewTaskService()
	dispatcher := services.NewDispatcher(taskService, orch, mongoClient, influxClient, storageService, emailService, pdfService)

	// Start the retention sweeper
	ttl := time.Duration(cfg.Retention.TTLHours) * time.Hour
	retentionService, err := services.NewRetentionService(taskService, mongoClient, cfg.Retention.Schedule, ttl)
	if err != nil {
		log.Fatalf("Failed to initialize retention scheduler: %v", err)
	}
	retentionService.Start()
	defer retentionService.Stop()

	// Initialize JWT auth (optional - empty secret disables auth)
	var jwtService *services.JWTService
	if cfg.Auth.JWTSecret != "" {
		jwtService = services.NewJWTService(cfg.Auth.JWTSecret)
	} else {
		log.Printf("AUTH_JWT_SECRET not set, API authentication disabled")
	}

	// Initialize handlers
	handlers := api.NewHandlers(dispatcher, taskService, pdfService, mongoClient)

	// Setup routes
	router := api.SetupRoutes(handlers, jwtService)

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
