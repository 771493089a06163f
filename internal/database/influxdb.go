package database

import (
	"context"
	"fmt"
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient writes task outcome metrics to InfluxDB
type InfluxClient struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	org      string
	bucket   string
}

// NewInfluxClient creates a new InfluxDB 2.0 client and verifies the
// connection health
func NewInfluxClient(url, token, org, bucket string) (*InfluxClient, error) {
	log.Printf("Initializing InfluxDB 2.0 client: url=%s, org=%s, bucket=%s", url, org, bucket)

	client := influxdb2.NewClient(url, token)

	health, err := client.Health(context.Background())
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if health.Status != "pass" {
		log.Printf("WARNING: InfluxDB health check returned status: %s", health.Status)
	}

	writeAPI := client.WriteAPIBlocking(org, bucket)

	return &InfluxClient{
		client:   client,
		writeAPI: writeAPI,
		org:      org,
		bucket:   bucket,
	}, nil
}

// RecordTaskOutcome writes one point per terminal task with its type,
// final status and processing duration
func (c *InfluxClient) RecordTaskOutcome(taskType, status string, duration time.Duration) {
	point := influxdb2.NewPoint("legal_tasks",
		map[string]string{
			"task_type": taskType,
			"status":    status,
		},
		map[string]interface{}{
			"duration_ms": duration.Milliseconds(),
			"count":       1,
		},
		time.Now(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.writeAPI.WritePoint(ctx, point); err != nil {
		log.Printf("WARNING: Failed to write task metric to InfluxDB: %v", err)
	}
}

// Close closes the InfluxDB client connection
func (c *InfluxClient) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
