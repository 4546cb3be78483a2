package purge

import (
	"context"
	"errors"
	"fmt"

	"github.com/hnipps/purgarr/internal/arr"
	"github.com/hnipps/purgarr/internal/transmission"
	"github.com/hnipps/purgarr/pkg/models"
)

// Post action names
const (
	ActionOverseerr    = "overseerr"
	ActionTransmission = "transmission"
)

// Target is the movie a post action works on
type Target struct {
	Entry  models.LibraryEntry
	Record models.AcquisitionRecord
}

// PostAction is a best-effort cleanup step run after the Radarr delete.
// A failing action never affects the others.
type PostAction struct {
	Name    string
	Enabled bool
	Run     func(ctx context.Context, t Target) error
	OnError func(t Target, err error)
}

// Deleter removes a resolved movie from Radarr and then runs the post actions
type Deleter struct {
	radarr    arr.Client
	overseerr RequestFrontend
	torrents  TorrentClient
	progress  ProgressReporter
	logger    arr.Logger
	dryRun    bool
}

// NewDeleter creates a new Deleter. overseerr and torrents may be nil.
func NewDeleter(
	radarr arr.Client,
	overseerr RequestFrontend,
	torrents TorrentClient,
	progress ProgressReporter,
	logger arr.Logger,
	dryRun bool,
) *Deleter {
	return &Deleter{
		radarr:    radarr,
		overseerr: overseerr,
		torrents:  torrents,
		progress:  progress,
		logger:    logger,
		dryRun:    dryRun,
	}
}

// Delete removes the movie everywhere. An error means the Radarr delete
// failed and no post action ran.
func (d *Deleter) Delete(ctx context.Context, entry models.LibraryEntry, res *Resolution) (*models.PurgeOutcome, error) {
	target := Target{Entry: entry, Record: res.Record}

	action := models.ActionDeleted
	if d.dryRun {
		action = models.ActionDryRun
		d.logger.Info("[DRY RUN] Would delete Radarr movie %d (%s) and its files", res.Record.ID, res.Record.Title)
	} else {
		if err := d.radarr.DeleteMovie(ctx, res.Record.ID, true); err != nil {
			return nil, err
		}
		d.logger.Info("Deleted Radarr movie %d (%s)", res.Record.ID, res.Record.Title)
	}

	outcome := &models.PurgeOutcome{
		Action:       action,
		Title:        entry.Title,
		Year:         entry.Year.String(),
		RatingKey:    entry.RatingKey,
		RadarrID:     res.Record.ID,
		TMDBID:       res.Record.TMDBID,
		MatchedBy:    res.MatchedBy,
		ReclaimedGiB: entry.SizeGiB(),
	}

	for _, pa := range d.PostActions() {
		outcome.Steps = append(outcome.Steps, runPostAction(ctx, pa, target))
	}

	return outcome, nil
}

// PostActions returns the post actions in execution order
func (d *Deleter) PostActions() []PostAction {
	return []PostAction{
		{
			Name:    ActionOverseerr,
			Enabled: !d.dryRun && d.overseerr != nil,
			Run:     d.removeFromOverseerr,
			OnError: func(t Target, err error) {
				d.logger.Warn("Unable to remove %s from Overseerr: %s", t.Entry.Title, err.Error())
			},
		},
		{
			Name:    ActionTransmission,
			Enabled: d.torrents != nil,
			Run:     d.removeTorrent,
			OnError: func(t Target, err error) {
				d.logger.Debug("Torrent removal for %s: %s", t.Entry.Title, err.Error())
				d.progress.ReportNoTorrent(t.Entry.Title)
			},
		},
	}
}

func runPostAction(ctx context.Context, pa PostAction, t Target) (result models.StepResult) {
	result = models.StepResult{Name: pa.Name, Status: models.StepSkipped}
	if !pa.Enabled {
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			result = models.StepResult{Name: pa.Name, Status: models.StepFailed, Error: err.Error()}
			if pa.OnError != nil {
				pa.OnError(t, err)
			}
		}
	}()

	if err := pa.Run(ctx, t); err != nil {
		if pa.OnError != nil {
			pa.OnError(t, err)
		}
		return models.StepResult{Name: pa.Name, Status: models.StepFailed, Error: err.Error()}
	}

	return models.StepResult{Name: pa.Name, Status: models.StepDone}
}

func (d *Deleter) removeFromOverseerr(ctx context.Context, t Target) error {
	mediaID, err := d.overseerr.GetMediaInfoID(ctx, t.Record.TMDBID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("no Overseerr media for TMDB ID %d", t.Record.TMDBID)
		}
		return err
	}

	if err := d.overseerr.DeleteMedia(ctx, mediaID); err != nil {
		return err
	}

	d.logger.Info("Removed %s from Overseerr (media ID %d)", t.Entry.Title, mediaID)
	return nil
}

func (d *Deleter) removeTorrent(ctx context.Context, t Target) error {
	sceneName := t.Record.SceneName
	if sceneName == "" {
		return fmt.Errorf("Radarr has no scene name for %s", t.Record.Title)
	}

	torrents, err := d.torrents.ListTorrents(ctx)
	if err != nil {
		return err
	}

	id, ok := transmission.NameIndex(torrents)[sceneName]
	if !ok {
		return fmt.Errorf("no torrent named %s", sceneName)
	}
	d.progress.ReportTorrentMatch(sceneName, id)

	if d.dryRun {
		d.logger.Info("[DRY RUN] Would remove torrent %d and its data", id)
		return nil
	}

	d.progress.ReportTorrentRemoval(sceneName)
	return d.torrents.RemoveTorrent(ctx, id, true)
}
