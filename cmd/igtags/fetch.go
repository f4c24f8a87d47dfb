package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"igtags/pkg/config"
	"igtags/pkg/instagram"
	"igtags/pkg/logger"
	"igtags/pkg/scraper"
	"igtags/pkg/storage"
	"igtags/pkg/ui"
)

const minDateLayout = "2006-01-02"

// parseMinDate parses YYYY-MM-DD as midnight UTC
func parseMinDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(minDateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid min-date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	tag := instagram.SanitizeTag(args[0])
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	minDate, err := parseMinDate(args[1])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		return err
	}
	if cfg.Logging.NoColor {
		ui.SetColor(false)
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.WithField("tag", tag)

	if !instagram.IsValidTag(tag) {
		log.Warn("Tag contains characters Instagram does not use in hashtags")
	}

	ui.PrintBanner()
	ui.PrintInfo("Tag", "#"+tag)
	ui.PrintInfo("Since", minDate.Format(minDateLayout))
	ui.PrintInfo("Output", cfg.Export.Output)

	s, err := scraper.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize scraper: %w", err)
	}

	exporters := storage.MultiExporter{
		storage.NewCSVExporter(cfg.Export.Output, cfg.Export.DelimiterRune(), log),
	}

	if cfg.Export.DatabaseDSN != "" {
		db, err := storage.OpenDatabase(cfg.Export.DatabaseDSN)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		dbExporter := storage.NewDatabaseExporter(db, tag, s.RunID(), log)
		if err := dbExporter.Migrate(); err != nil {
			return err
		}
		exporters = append(exporters, dbExporter)
	}

	result := s.FetchPosts(cmd.Context(), tag, minDate)
	if result.Err != nil {
		ui.PrintWarning("Stopped early, exporting what was fetched", result.Err)
	}

	if err := exporters.Export(cmd.Context(), result.Posts); err != nil {
		log.WithError(err).Error("Export failed")
		return fmt.Errorf("export failed: %w", err)
	}

	if len(result.Posts) > 0 {
		ui.PrintSuccess(fmt.Sprintf("%d posts written to %s", len(result.Posts), cfg.Export.Output))
	}
	return nil
}
