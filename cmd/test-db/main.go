package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"jurisai-api/internal/config"
	"jurisai-api/internal/database"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.MongoDB.URI == "" && cfg.MongoDB.Host == "" {
		log.Fatalf("MongoDB is not configured (set MONGODB_URI or MONGODB_HOST)")
	}

	fmt.Printf("=== Task Archive Connectivity Test ===\n\n")
	fmt.Printf("Host: %s\n", cfg.MongoDB.Host)
	fmt.Printf("Port: %s\n", cfg.MongoDB.Port)
	fmt.Printf("Database: %s\n", cfg.MongoDB.Database)
	fmt.Printf("Collection: %s\n", cfg.MongoDB.Collection)
	fmt.Printf("\n")

	client, err := database.NewMongoDBClient(cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := client.CountArchivedTasks(ctx)
	if err != nil {
		log.Fatalf("Failed to count archived tasks: %v", err)
	}
	fmt.Printf("Archived tasks: %d\n", count)

	// Optionally look up a specific task by ID
	if len(os.Args) > 1 {
		taskID := os.Args[1]
		fmt.Printf("\nLooking up task %s...\n", taskID)

		task, err := client.GetArchivedTask(ctx, taskID)
		if err != nil {
			log.Fatalf("Failed to query archived task: %v", err)
		}
		if task == nil {
			fmt.Println("Task not found in archive")
			return
		}

		fmt.Printf("  Type: %s\n", task.Type)
		fmt.Printf("  Status: %s\n", task.Status)
		fmt.Printf("  Created: %s\n", task.CreatedAt.Format(time.RFC3339))
		if task.CompletedAt != nil {
			fmt.Printf("  Completed: %s\n", task.CompletedAt.Format(time.RFC3339))
		}
		if task.Error != "" {
			fmt.Printf("  Error: %s\n", task.Error)
		}
	}
}
