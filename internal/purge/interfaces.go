package purge

import (
	"context"

	"github.com/hnipps/purgarr/pkg/models"
)

// LibrarySearcher is the media-library indexer
type LibrarySearcher interface {
	// SearchMovies returns the library entries whose title contains the given text
	SearchMovies(ctx context.Context, title string) ([]models.LibraryEntry, error)

	// GetGUIDs returns the provider GUIDs for a library entry
	GetGUIDs(ctx context.Context, ratingKey string) (models.GUIDSet, error)
}

// RequestFrontend is the optional request-management frontend
type RequestFrontend interface {
	// GetMediaInfoID returns the frontend's media id for a TMDB movie,
	// or models.ErrNotFound when it tracks none
	GetMediaInfoID(ctx context.Context, tmdbID int64) (int64, error)

	// DeleteMedia removes a media item and its requests
	DeleteMedia(ctx context.Context, mediaID int64) error
}

// TorrentClient is the optional torrent download client
type TorrentClient interface {
	ListTorrents(ctx context.Context) ([]models.Torrent, error)
	RemoveTorrent(ctx context.Context, id int64, deleteData bool) error
}

// ProgressReporter prints the user-facing lines of a purge
type ProgressReporter interface {
	ReportTorrentMatch(sceneName string, torrentID int64)
	ReportTorrentRemoval(sceneName string)
	ReportNoTorrent(title string)
	ReportOutcome(outcome models.PurgeOutcome)
	ReportMovieError(title string, err error)
	Finish(totalGiB float64)
}
