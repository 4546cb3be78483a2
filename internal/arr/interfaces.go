package arr

import (
	"context"

	"github.com/hnipps/purgarr/pkg/models"
)

// Client defines the interface for the *arr acquisition manager
type Client interface {
	// GetName returns the name of the service (e.g., "radarr")
	GetName() string

	// TestConnection verifies the connection and API key
	TestConnection(ctx context.Context) error

	// GetAllMovies returns the full movie catalog
	GetAllMovies(ctx context.Context) ([]models.AcquisitionRecord, error)

	// DeleteMovie removes a movie, and its files when deleteFiles is set
	DeleteMovie(ctx context.Context, movieID int64, deleteFiles bool) error
}

// Logger defines the interface for logging operations
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
