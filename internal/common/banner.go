package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and logs the effective settings
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple("RefCheck", GetVersion())

	logger.Info().
		Str("version", GetVersion()).
		Str("environment", config.Environment).
		Str("page_size", config.Render.PageSize).
		Str("output_dir", config.Render.OutputDir).
		Bool("retention", config.Retention.Enabled).
		Msg("Report exporter starting")
}
