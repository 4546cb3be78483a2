package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hnipps/purgarr/internal/arr"
	"github.com/hnipps/purgarr/pkg/models"
)

// Generator handles the generation and output of purge reports
type Generator struct {
	dir    string
	logger arr.Logger
	now    func() time.Time
}

// NewGenerator creates a new report generator writing into dir
func NewGenerator(dir string, logger arr.Logger) *Generator {
	return &Generator{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// GenerateReport saves the report to disk and optionally logs a summary.
// It returns the path of the written file.
func (g *Generator) GenerateReport(report *models.PurgeReport, printSummary bool) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report is nil")
	}

	path, err := g.saveReportToDisk(report)
	if err != nil {
		return "", fmt.Errorf("failed to save report to disk: %w", err)
	}

	if printSummary {
		g.printSummary(report)
	}

	return path, nil
}

// saveReportToDisk saves the report as JSON to the reports directory
func (g *Generator) saveReportToDisk(report *models.PurgeReport) (string, error) {
	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	timestamp := g.now().Format("20060102-150405")
	filename := fmt.Sprintf("purge-report-%s.json", timestamp)
	if report.RunType == "dry-run" {
		filename = fmt.Sprintf("purge-report-dryrun-%s.json", timestamp)
	}

	path := filepath.Join(g.dir, filename)

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	g.logger.Info("📄 Report saved to: %s", path)
	return path, nil
}

// printSummary logs the report in human-readable form
func (g *Generator) printSummary(report *models.PurgeReport) {
	g.logger.Info("📊 PURGE REPORT")
	g.logger.Info("Generated: %s", report.GeneratedAt)
	g.logger.Info("Run Type: %s", report.RunType)
	g.logger.Info("Search: %q", report.Search)

	if len(report.Outcomes) == 0 {
		g.logger.Info("Nothing was deleted")
		return
	}

	for _, outcome := range report.Outcomes {
		g.logger.Info("%s: %s (Radarr ID %d, TMDB ID %d, matched by %s)",
			outcome.Action, outcome.Title, outcome.RadarrID, outcome.TMDBID, outcome.MatchedBy)
		for _, step := range outcome.Steps {
			if step.Status == models.StepFailed {
				g.logger.Warn("   %s: %s (%s)", step.Name, step.Status, step.Error)
				continue
			}
			g.logger.Info("   %s: %s", step.Name, step.Status)
		}
	}

	reclaimed := uint64(report.TotalReclaimGiB * models.BytesPerGiB)
	g.logger.Info("Reclaimed: %s", humanize.IBytes(reclaimed))
}
