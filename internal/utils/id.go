package utils

import "github.com/google/uuid"

// GenerateUUID returns a new random identifier for tasks
func GenerateUUID() string {
	return uuid.New().String()
}
