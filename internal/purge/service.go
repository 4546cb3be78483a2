// Package purge finds a movie across the media stack and deletes it everywhere.
package purge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hnipps/purgarr/internal/arr"
	"github.com/hnipps/purgarr/pkg/models"
)

// State is the terminal state of a run
type State string

const (
	StateNoMatch  State = "no-match"
	StateAborted  State = "aborted"
	StateNotFound State = "not-found"
	StateFailed   State = "failed"
	StateReported State = "reported"
)

// FatalError aborts the run with a non-zero exit code
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "There was a problem connecting to Tautulli/Radarr/Overseerr. " +
		"Please double-check that your connection settings and API keys are correct.\n\nError message:\n" + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Result describes how a run ended
type Result struct {
	State        State
	Search       string
	DryRun       bool
	Outcome      *models.PurgeOutcome
	ReclaimedGiB float64
}

// Report converts the result into a run report
func (r *Result) Report(now time.Time) *models.PurgeReport {
	runType := "real-run"
	if r.DryRun {
		runType = "dry-run"
	}

	report := &models.PurgeReport{
		GeneratedAt:     now.Format(time.RFC3339),
		RunType:         runType,
		Search:          r.Search,
		Outcomes:        []models.PurgeOutcome{},
		TotalReclaimGiB: r.ReclaimedGiB,
	}
	if r.Outcome != nil {
		report.Outcomes = append(report.Outcomes, *r.Outcome)
	}
	return report
}

// Options wires a Service. Overseerr and Torrents are optional.
type Options struct {
	Library   LibrarySearcher
	Radarr    arr.Client
	Overseerr RequestFrontend
	Torrents  TorrentClient
	Logger    arr.Logger
	In        io.Reader
	Out       io.Writer
	DryRun    bool
}

// Service runs search, disambiguation, resolution and deletion in order
type Service struct {
	library  LibrarySearcher
	logger   arr.Logger
	prompter *Prompter
	resolver *Resolver
	deleter  *Deleter
	progress ProgressReporter
	dryRun   bool
}

// NewService creates a new Service
func NewService(opts Options) *Service {
	progress := NewConsoleProgressReporter(opts.Out, opts.Logger)

	return &Service{
		library:  opts.Library,
		logger:   opts.Logger,
		prompter: NewPrompter(opts.In, opts.Out, opts.DryRun),
		resolver: NewResolver(opts.Library, opts.Radarr, opts.Logger),
		deleter:  NewDeleter(opts.Radarr, opts.Overseerr, opts.Torrents, progress, opts.Logger, opts.DryRun),
		progress: progress,
		dryRun:   opts.DryRun,
	}
}

// Run searches for title and purges the movie the user picks. Only a
// *FatalError is returned; every other problem ends the run normally.
func (s *Service) Run(ctx context.Context, title string) (*Result, error) {
	result := &Result{Search: title, DryRun: s.dryRun}

	if s.dryRun {
		s.logger.Info("🏃 DRY RUN MODE: No changes will be made")
	}

	entries, err := s.library.SearchMovies(ctx, title)
	if err != nil {
		return nil, &FatalError{Err: err}
	}

	if len(entries) == 0 {
		s.prompter.NoMatch()
		result.State = StateNoMatch
		return result, nil
	}

	selection, err := s.prompter.Select(entries)
	if err != nil {
		s.logger.Debug("Selection not accepted: %s", err.Error())
		s.prompter.NoAction()
		result.State = StateAborted
		return result, nil
	}

	if selection <= 0 {
		s.prompter.NoAction()
		result.State = StateAborted
		return result, nil
	}

	if selection > len(entries) {
		s.prompter.SelectionFailed(fmt.Errorf("selection %d is out of range (1-%d)", selection, len(entries)))
		result.State = StateFailed
		return result, nil
	}

	entry := entries[selection-1]
	result.State, result.Outcome = s.purge(ctx, entry)
	if result.Outcome != nil {
		result.ReclaimedGiB = result.Outcome.ReclaimedGiB
	}

	s.progress.Finish(result.ReclaimedGiB)
	return result, nil
}

func (s *Service) purge(ctx context.Context, entry models.LibraryEntry) (State, *models.PurgeOutcome) {
	res, err := s.resolver.Resolve(ctx, entry)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("%s is not in Radarr, nothing to delete", entry.Title)
			return StateNotFound, nil
		}
		s.progress.ReportMovieError(entry.Title, err)
		return StateFailed, nil
	}

	outcome, err := s.deleter.Delete(ctx, entry, res)
	if err != nil {
		s.progress.ReportMovieError(entry.Title, err)
		return StateFailed, nil
	}

	s.progress.ReportOutcome(*outcome)
	return StateReported, outcome
}
