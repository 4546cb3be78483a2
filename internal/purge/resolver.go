package purge

import (
	"context"
	"fmt"

	"github.com/hnipps/purgarr/internal/arr"
	"github.com/hnipps/purgarr/pkg/models"
)

// Match modes recorded on the outcome
const (
	MatchByTMDB  = "tmdb"
	MatchByTitle = "title"
)

// Resolution is a library entry resolved to its Radarr record
type Resolution struct {
	Record    models.AcquisitionRecord
	MatchedBy string
}

// Resolver maps a library entry to the matching Radarr movie
type Resolver struct {
	library LibrarySearcher
	radarr  arr.Client
	logger  arr.Logger
}

// NewResolver creates a new Resolver
func NewResolver(library LibrarySearcher, radarr arr.Client, logger arr.Logger) *Resolver {
	return &Resolver{
		library: library,
		radarr:  radarr,
		logger:  logger,
	}
}

// Resolve finds the Radarr movie for entry. It prefers the TMDB id from the
// entry's GUIDs and falls back to an exact title match when no usable id is
// available. models.ErrNotFound means the catalog has no such movie.
func (r *Resolver) Resolve(ctx context.Context, entry models.LibraryEntry) (*Resolution, error) {
	guids, err := r.library.GetGUIDs(ctx, entry.RatingKey)
	if err != nil {
		return nil, err
	}

	var tmdbID int64
	lookup := guids.TMDBID()
	switch lookup.Status {
	case models.IDFound:
		tmdbID = lookup.ID
		r.logger.Debug("%s resolved to TMDB ID %d", entry.Title, tmdbID)
	case models.IDUnavailable:
		r.logger.Warn("%s: Unexpected GUID metadata from Tautulli. Please refresh your library's metadata in Plex. "+
			"Using less-accurate 'search mode' for this title. Error message: %s", entry.Title, lookup.Reason)
	case models.IDAbsent:
		r.logger.Debug("%s has no GUIDs, matching by title", entry.Title)
	}

	movies, err := r.radarr.GetAllMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Radarr movies: %w", err)
	}

	record, err := FindMovie(movies, tmdbID, entry.Title)
	if err != nil {
		return nil, err
	}

	matchedBy := MatchByTitle
	if tmdbID > 0 {
		matchedBy = MatchByTMDB
	}
	return &Resolution{Record: record, MatchedBy: matchedBy}, nil
}

// FindMovie returns the first movie with the given TMDB id, or when tmdbID
// is zero the first movie whose title equals title exactly.
func FindMovie(movies []models.AcquisitionRecord, tmdbID int64, title string) (models.AcquisitionRecord, error) {
	for _, movie := range movies {
		if tmdbID > 0 {
			if movie.TMDBID == tmdbID {
				return movie, nil
			}
			continue
		}
		if movie.Title == title {
			return movie, nil
		}
	}
	return models.AcquisitionRecord{}, models.ErrNotFound
}
