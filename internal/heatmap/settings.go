package heatmap

import (
	"fmt"

	"consumption-heatmap/internal/config"
)

// SettingsFromConfig maps the transform and render sections of cfg.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	opts, err := cfg.Transform.Options()
	if err != nil {
		return Settings{}, fmt.Errorf("transform options: %w", err)
	}
	return Settings{
		Transform:       opts,
		Duplicates:      cfg.Transform.DuplicatePolicy(),
		DefaultTitle:    cfg.Render.DefaultTitle,
		DefaultFileName: cfg.Render.DefaultFileName,
		PlotlyURL:       cfg.Render.PlotlyURL,
		TempDir:         cfg.Render.TempDir,
	}, nil
}
