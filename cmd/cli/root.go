package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"consumption-heatmap/internal/config"
	"consumption-heatmap/internal/heatmap"
	"consumption-heatmap/internal/logging"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	cfgFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Render electricity consumption heatmaps from meter exports",
		Long: `heatmap reads the interval consumption export of a distribution operator
(.xlsx, three metadata rows above the column header) and renders a
time-of-day x date heatmap as html, xlsx, pdf or csv.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default $HEATMAP_CONFIG)")

	cmd.AddCommand(newSheetsCmd(opts))
	cmd.AddCommand(newColumnsCmd(opts))
	cmd.AddCommand(newRenderCmd(opts))
	return cmd
}

// getConfigPath returns the config file path
func (o *rootOptions) getConfigPath() string {
	if o.cfgFile != "" {
		return o.cfgFile
	}
	return os.Getenv("HEATMAP_CONFIG")
}

// loadConfig loads the configuration and installs the logger it describes
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.getConfigPath())
	if err != nil {
		return nil, err
	}
	l, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}
	logging.SetDefault(l)
	return cfg, nil
}

func (o *rootOptions) service(cfg *config.Config) (*heatmap.Service, error) {
	settings, err := heatmap.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return heatmap.New(settings, logging.L), nil
}

func readWorkbook(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	return raw, nil
}
