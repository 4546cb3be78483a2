package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hnipps/purgarr/internal/arr"
	"github.com/hnipps/purgarr/internal/config"
	"github.com/hnipps/purgarr/internal/overseerr"
	"github.com/hnipps/purgarr/internal/purge"
	"github.com/hnipps/purgarr/internal/report"
	"github.com/hnipps/purgarr/internal/tautulli"
	"github.com/hnipps/purgarr/internal/transmission"
	"github.com/spf13/cobra"
)

// Version information - set at build time
var version = "dev"

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "purgarr --title=\"Search Title\"",
		Short: "Delete a movie from Radarr, Overseerr, Transmission and the disk",
		Long: `Enter a movie title to delete a movie from Overseerr, Radarr, and from the disk.
Don't worry! You'll be prompted before it does a delete.
So that it is properly read, pass your title as:

  --title="Search Title"`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return errors.New("--title must not be empty")
			}
			cmd.SilenceUsage = true
			return runPurge(cmd, title)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "The title to search for deletion.")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runPurge(cmd *cobra.Command, title string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig()
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			return errors.New("Required Tautulli/Radarr API key not set. Cannot continue.")
		}
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := arr.NewLogger(arr.LoggerOptions{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	defer logger.Close()

	logger.Info("Starting purgarr %s", version)

	radarrClient := arr.NewRadarrClient(&cfg.Radarr, cfg.RequestTimeout, logger)
	if err := radarrClient.TestConnection(ctx); err != nil {
		return fmt.Errorf("unable to validate the Radarr API key: %w", err)
	}

	tautulliClient := tautulli.NewTautulliClient(&cfg.Tautulli, cfg.RequestTimeout, logger)
	if err := tautulliClient.TestConnection(ctx); err != nil {
		logger.Debug("Tautulli status check failed: %s", err.Error())
	}

	opts := purge.Options{
		Library: tautulliClient,
		Radarr:  radarrClient,
		Logger:  logger,
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		DryRun:  cfg.DryRun,
	}
	if cfg.HasOverseerr() {
		opts.Overseerr = overseerr.NewOverseerrClient(&cfg.Overseerr, cfg.RequestTimeout, logger)
	}
	if cfg.HasTransmission() {
		opts.Torrents = transmission.NewClient(&cfg.Transmission, cfg.RequestTimeout, logger)
	}

	result, err := purge.NewService(opts).Run(ctx, title)
	if err != nil {
		return err
	}
	logger.Debug("Run finished in state %s", result.State)

	if cfg.ReportDir != "" {
		generator := report.NewGenerator(cfg.ReportDir, logger)
		if _, err := generator.GenerateReport(result.Report(time.Now()), true); err != nil {
			logger.Warn("Failed to generate report: %s", err.Error())
		}
	}

	return nil
}
