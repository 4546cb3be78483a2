package purge

import (
	"context"
	"fmt"

	"github.com/hnipps/purgarr/pkg/models"
)

// Mock implementations for testing

type mockLogger struct {
	debugMessages []string
	infoMessages  []string
	warnMessages  []string
	errorMessages []string
}

func (m *mockLogger) Debug(msg string, args ...interface{}) {
	m.debugMessages = append(m.debugMessages, fmt.Sprintf(msg, args...))
}

func (m *mockLogger) Info(msg string, args ...interface{}) {
	m.infoMessages = append(m.infoMessages, fmt.Sprintf(msg, args...))
}

func (m *mockLogger) Warn(msg string, args ...interface{}) {
	m.warnMessages = append(m.warnMessages, fmt.Sprintf(msg, args...))
}

func (m *mockLogger) Error(msg string, args ...interface{}) {
	m.errorMessages = append(m.errorMessages, fmt.Sprintf(msg, args...))
}

type mockLibrary struct {
	entries     []models.LibraryEntry
	searchError error
	guids       map[string]models.GUIDSet
	guidsError  error
	searches    []string
	guidLookups []string
}

func (m *mockLibrary) SearchMovies(ctx context.Context, title string) ([]models.LibraryEntry, error) {
	m.searches = append(m.searches, title)
	return m.entries, m.searchError
}

func (m *mockLibrary) GetGUIDs(ctx context.Context, ratingKey string) (models.GUIDSet, error) {
	m.guidLookups = append(m.guidLookups, ratingKey)
	if m.guidsError != nil {
		return models.GUIDSet{}, m.guidsError
	}
	return m.guids[ratingKey], nil
}

type mockRadarr struct {
	movies       []models.AcquisitionRecord
	moviesError  error
	deleteError  error
	deletedIDs   []int64
	deleteFiles  []bool
	catalogCalls int
}

func (m *mockRadarr) GetName() string {
	return "radarr"
}

func (m *mockRadarr) TestConnection(ctx context.Context) error {
	return nil
}

func (m *mockRadarr) GetAllMovies(ctx context.Context) ([]models.AcquisitionRecord, error) {
	m.catalogCalls++
	return m.movies, m.moviesError
}

func (m *mockRadarr) DeleteMovie(ctx context.Context, movieID int64, deleteFiles bool) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	m.deletedIDs = append(m.deletedIDs, movieID)
	m.deleteFiles = append(m.deleteFiles, deleteFiles)
	return nil
}

type mockFrontend struct {
	mediaID       int64
	lookupError   error
	deleteError   error
	panicOnLookup bool
	lookups       []int64
	deletedIDs    []int64
}

func (m *mockFrontend) GetMediaInfoID(ctx context.Context, tmdbID int64) (int64, error) {
	if m.panicOnLookup {
		panic("unexpected response shape")
	}
	m.lookups = append(m.lookups, tmdbID)
	return m.mediaID, m.lookupError
}

func (m *mockFrontend) DeleteMedia(ctx context.Context, mediaID int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	m.deletedIDs = append(m.deletedIDs, mediaID)
	return nil
}

type mockTorrents struct {
	torrents    []models.Torrent
	listError   error
	removeError error
	listCalls   int
	removedIDs  []int64
	deleteData  []bool
}

func (m *mockTorrents) ListTorrents(ctx context.Context) ([]models.Torrent, error) {
	m.listCalls++
	return m.torrents, m.listError
}

func (m *mockTorrents) RemoveTorrent(ctx context.Context, id int64, deleteData bool) error {
	if m.removeError != nil {
		return m.removeError
	}
	m.removedIDs = append(m.removedIDs, id)
	m.deleteData = append(m.deleteData, deleteData)
	return nil
}

const inceptionScene = "Inception.2010.1080p.BluRay.x264-GRP"

func inceptionEntry() models.LibraryEntry {
	return models.LibraryEntry{RatingKey: "101", Title: "Inception", Year: 2010, FileSize: 5 * models.BytesPerGiB}
}

func inceptionRecord() models.AcquisitionRecord {
	return models.AcquisitionRecord{ID: 42, TMDBID: 27205, Title: "Inception", Year: 2010, SceneName: inceptionScene}
}
