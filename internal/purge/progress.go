package purge

import (
	"fmt"
	"io"

	"github.com/hnipps/purgarr/internal/arr"
	"github.com/hnipps/purgarr/pkg/models"
)

// ConsoleProgressReporter implements the ProgressReporter interface for console output
type ConsoleProgressReporter struct {
	out    io.Writer
	logger arr.Logger
}

// NewConsoleProgressReporter creates a new ConsoleProgressReporter
func NewConsoleProgressReporter(out io.Writer, logger arr.Logger) ProgressReporter {
	return &ConsoleProgressReporter{
		out:    out,
		logger: logger,
	}
}

// ReportTorrentMatch reports the torrent that matched the movie's scene name
func (r *ConsoleProgressReporter) ReportTorrentMatch(sceneName string, torrentID int64) {
	fmt.Fprintf(r.out, "Torrent match found: %s\n", sceneName)
	fmt.Fprintf(r.out, "Torrent ID: %d\n", torrentID)
}

// ReportTorrentRemoval reports that a torrent is about to be removed
func (r *ConsoleProgressReporter) ReportTorrentRemoval(sceneName string) {
	fmt.Fprintf(r.out, "Removing torrent and its data: %s\n", sceneName)
}

// ReportNoTorrent reports that no torrent could be correlated with the movie
func (r *ConsoleProgressReporter) ReportNoTorrent(title string) {
	fmt.Fprintf(r.out, "No original filename found for: %s\n", title)
}

// ReportOutcome prints the one-line summary of a purged movie
func (r *ConsoleProgressReporter) ReportOutcome(outcome models.PurgeOutcome) {
	fmt.Fprintf(r.out, "%s: %s | Radarr ID: %d | TMDB ID: %d\n",
		outcome.Action, outcome.Title, outcome.RadarrID, outcome.TMDBID)

	for _, step := range outcome.Steps {
		if step.Error != "" {
			r.logger.Debug("Post action %s: %s (%s)", step.Name, step.Status, step.Error)
			continue
		}
		r.logger.Debug("Post action %s: %s", step.Name, step.Status)
	}
}

// ReportMovieError reports a failure that ended the purge of one movie
func (r *ConsoleProgressReporter) ReportMovieError(title string, err error) {
	fmt.Fprintf(r.out, "ERROR: %s: %s\n", title, err.Error())
}

// Finish prints the reclaimed space
func (r *ConsoleProgressReporter) Finish(totalGiB float64) {
	fmt.Fprintf(r.out, "Total space reclaimed: %.2fGB\n", totalGiB)
}
