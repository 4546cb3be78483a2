package arr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hnipps/purgarr/internal/config"
	"github.com/hnipps/purgarr/pkg/models"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

// RadarrClient implements the Client interface for the Radarr API
type RadarrClient struct {
	radarr *radarr.Radarr
	logger Logger
}

// NewRadarrClient creates a new Radarr client
func NewRadarrClient(cfg *config.RadarrConfig, timeout time.Duration, logger Logger) Client {
	starrCfg := starr.New(cfg.APIKey, strings.TrimRight(cfg.URL, "/"), timeout)
	return &RadarrClient{
		radarr: radarr.New(starrCfg),
		logger: logger,
	}
}

// GetName returns the service name
func (c *RadarrClient) GetName() string {
	return "radarr"
}

// TestConnection verifies the connection and API key against Radarr
func (c *RadarrClient) TestConnection(ctx context.Context) error {
	status, err := c.radarr.GetSystemStatusContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	c.logger.Debug("Connected to Radarr %s", status.Version)
	return nil
}

// GetAllMovies returns every movie in the Radarr catalog
func (c *RadarrClient) GetAllMovies(ctx context.Context) ([]models.AcquisitionRecord, error) {
	movies, err := c.radarr.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movies: %w", err)
	}

	c.logger.Debug("Fetched %d movies from Radarr", len(movies))
	return mapRadarrMoviesToModelsList(movies), nil
}

// DeleteMovie removes a movie from Radarr, optionally with its files
func (c *RadarrClient) DeleteMovie(ctx context.Context, movieID int64, deleteFiles bool) error {
	if err := c.radarr.DeleteMovieContext(ctx, movieID, deleteFiles, false); err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", movieID, err)
	}

	c.logger.Debug("Successfully deleted movie %d (deleteFiles=%t)", movieID, deleteFiles)
	return nil
}

// mapRadarrMovieToModels converts a starr Movie to our models.AcquisitionRecord
func mapRadarrMovieToModels(m *radarr.Movie) models.AcquisitionRecord {
	if m == nil {
		return models.AcquisitionRecord{}
	}

	record := models.AcquisitionRecord{
		ID:         m.ID,
		TMDBID:     m.TmdbID,
		Title:      m.Title,
		Year:       m.Year,
		SizeOnDisk: m.SizeOnDisk,
	}
	if m.MovieFile != nil {
		record.SceneName = m.MovieFile.SceneName
	}

	return record
}

// mapRadarrMoviesToModelsList converts a slice of starr Movies, skipping nil entries
func mapRadarrMoviesToModelsList(movies []*radarr.Movie) []models.AcquisitionRecord {
	result := make([]models.AcquisitionRecord, 0, len(movies))
	for _, m := range movies {
		if m == nil {
			continue
		}
		result = append(result, mapRadarrMovieToModels(m))
	}
	return result
}
