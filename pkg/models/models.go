package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a lookup completed but matched nothing.
// It is an expected outcome and callers must keep it apart from lookup failures.
var ErrNotFound = errors.New("not found")

// TMDBPrefix is the provider prefix Plex uses for The Movie Database GUIDs
const TMDBPrefix = "tmdb://"

// BytesPerGiB is used to convert Tautulli file sizes into reclaimed space
const BytesPerGiB = 1 << 30

// LibraryEntry represents a movie row from the Tautulli library search
type LibraryEntry struct {
	RatingKey string  `json:"rating_key"`
	Title     string  `json:"title"`
	Year      FlexInt `json:"year"`
	FileSize  FlexInt `json:"file_size"`
}

// SizeGiB returns the entry's file size in GiB
func (e LibraryEntry) SizeGiB() float64 {
	return float64(e.FileSize) / BytesPerGiB
}

// DisplayName returns "Title (Year)" the way candidates are listed
func (e LibraryEntry) DisplayName() string {
	return fmt.Sprintf("%s (%s)", e.Title, e.Year.String())
}

// FlexInt decodes integers that Tautulli sends either as JSON numbers or as
// strings. Empty strings and null decode to zero.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*f = 0
		return nil
	}

	raw = strings.Trim(raw, `"`)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer value %s: %w", string(data), err)
	}

	*f = FlexInt(n)
	return nil
}

// String returns the decimal form, or an empty string for zero
func (f FlexInt) String() string {
	if f == 0 {
		return ""
	}
	return strconv.FormatInt(int64(f), 10)
}

// GUIDSet is the ordered list of provider GUIDs Tautulli reports for an item.
// Decoding never fails: a value that is not a list of strings sets Malformed.
type GUIDSet struct {
	IDs       []string
	Malformed bool
}

// UnmarshalJSON implements json.Unmarshaler
func (g *GUIDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		g.IDs = nil
		g.Malformed = strings.TrimSpace(string(data)) != "null"
		return nil
	}

	g.IDs = ids
	g.Malformed = false
	return nil
}

// ExternalID returns the suffix of the first GUID carrying the given prefix
func (g GUIDSet) ExternalID(prefix string) (string, bool) {
	for _, id := range g.IDs {
		if strings.HasPrefix(id, prefix) {
			return strings.TrimPrefix(id, prefix), true
		}
	}
	return "", false
}

// IDStatus describes the outcome of an identifier extraction
type IDStatus int

const (
	// IDFound means a usable identifier was extracted
	IDFound IDStatus = iota
	// IDAbsent means the GUID set was empty
	IDAbsent
	// IDUnavailable means the GUID set existed but no usable identifier could be read from it
	IDUnavailable
)

// IDLookup is the typed result of extracting an external id from a GUID set
type IDLookup struct {
	Status IDStatus
	ID     int64
	Reason string
}

// TMDBID extracts the TMDB id from the set
func (g GUIDSet) TMDBID() IDLookup {
	if g.Malformed {
		return IDLookup{Status: IDUnavailable, Reason: "guids is not a list"}
	}
	if len(g.IDs) == 0 {
		return IDLookup{Status: IDAbsent}
	}

	suffix, ok := g.ExternalID(TMDBPrefix)
	if !ok {
		return IDLookup{Status: IDUnavailable, Reason: "no tmdb guid present"}
	}

	id, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || id <= 0 {
		return IDLookup{Status: IDUnavailable, Reason: fmt.Sprintf("invalid tmdb guid %q", TMDBPrefix+suffix)}
	}

	return IDLookup{Status: IDFound, ID: id}
}

// AcquisitionRecord represents a movie in Radarr
type AcquisitionRecord struct {
	ID         int64  `json:"id"`
	TMDBID     int64  `json:"tmdbId"`
	Title      string `json:"title"`
	Year       int    `json:"year,omitempty"`
	SizeOnDisk int64  `json:"sizeOnDisk,omitempty"`
	SceneName  string `json:"sceneName,omitempty"`
}

// Torrent represents a torrent known to the download client
type Torrent struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	HashString string `json:"hashString,omitempty"`
}

// StepStatus is the result of a best-effort post action
type StepStatus string

const (
	StepDone    StepStatus = "done"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepResult records what happened to one post action
type StepResult struct {
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// Action labels used in the report line
const (
	ActionDeleted = "DELETED"
	ActionDryRun  = "DRY RUN"
)

// PurgeOutcome is the result of a completed cascading delete
type PurgeOutcome struct {
	Action       string       `json:"action"`
	Title        string       `json:"title"`
	Year         string       `json:"year,omitempty"`
	RatingKey    string       `json:"ratingKey"`
	RadarrID     int64        `json:"radarrId"`
	TMDBID       int64        `json:"tmdbId"`
	MatchedBy    string       `json:"matchedBy"` // "tmdb" or "title"
	ReclaimedGiB float64      `json:"reclaimedGiB"`
	Steps        []StepResult `json:"steps,omitempty"`
}

// PurgeReport represents a complete run report
type PurgeReport struct {
	GeneratedAt     string         `json:"generatedAt"`
	RunType         string         `json:"runType"` // "dry-run" or "real-run"
	Search          string         `json:"search"`
	Outcomes        []PurgeOutcome `json:"outcomes"`
	TotalReclaimGiB float64        `json:"totalReclaimedGiB"`
}
