// Package config loads the ignore-rectangle configuration and the tool's
// runtime settings.
package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"matchpdf/pkg/geometry"
	"matchpdf/pkg/logging"
)

// configHints is appended to decoding errors of the ignore configuration.
const configHints = `
Tips:
Verify that the config file contains a valid JSON object.
If excluding more than one region, be sure there is a comma separating their lines in the config file.
If a value between 0 or 1 is desired for x or y, use a zero before the decimal.`

// RectangleRecord is one entry of ignored_rectangles as written in the
// configuration file.
type RectangleRecord struct {
	Page        string    `mapstructure:"page"`
	TopLeft     []float64 `mapstructure:"top_left"`
	BottomRight []float64 `mapstructure:"bottom_right"`
}

type ignoreFile struct {
	IgnoredRectangles []RectangleRecord `mapstructure:"ignored_rectangles"`
}

// IgnoreConfig holds the parsed exclusion zones.
type IgnoreConfig struct {
	Rectangles []geometry.Rectangle
}

// LoadIgnoreConfig reads a JSON file of the form
//
//	{"ignored_rectangles": [{"page": "all", "top_left": [0, 0], "bottom_right": [8.5, 1]}]}
func LoadIgnoreConfig(path string) (*IgnoreConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w\n%s", path, err, configHints)
	}
	if !v.IsSet("ignored_rectangles") {
		return nil, fmt.Errorf("config file %s: missing field ignored_rectangles\n%s", path, configHints)
	}

	var f ignoreFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w\n%s", path, err, configHints)
	}
	return parseRecords(f.IgnoredRectangles)
}

func parseRecords(records []RectangleRecord) (*IgnoreConfig, error) {
	cfg := &IgnoreConfig{}
	for i, rec := range records {
		if len(rec.TopLeft) != 2 || len(rec.BottomRight) != 2 {
			return nil, fmt.Errorf("ignored_rectangles[%d]: top_left and bottom_right need exactly two values\n%s", i, configHints)
		}
		sel := geometry.ParseSelector(rec.Page)
		if sel.Kind == geometry.SelectNever {
			logging.Log.WithField("page", rec.Page).Warn("ignore rectangle page selector never matches a page")
		}
		cfg.Rectangles = append(cfg.Rectangles, geometry.Rectangle{
			Page:        sel,
			TopLeft:     [2]float64{rec.TopLeft[0], rec.TopLeft[1]},
			BottomRight: [2]float64{rec.BottomRight[0], rec.BottomRight[1]},
		})
	}
	return cfg, nil
}

// Settings are runtime options that are not passed on the command line.
type Settings struct {
	TargetHeight      int     `mapstructure:"target_height"`
	OutputWidthInches float64 `mapstructure:"output_width_inches"`
	PageWidthPoints   float64 `mapstructure:"page_width_points"`
	PageHeightPoints  float64 `mapstructure:"page_height_points"`
	Pdftoppm          string  `mapstructure:"pdftoppm"`
	Pdfinfo           string  `mapstructure:"pdfinfo"`
	TempDir           string  `mapstructure:"temp_dir"`
}

// LoadSettings reads matchpdf.yaml from dir, if present, and overrides it
// with MATCHPDF_* environment variables. A .env file in the working
// directory is loaded first.
func LoadSettings(dir string) (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		logging.Log.Debug("no .env file found, using system environment")
	}

	v := viper.New()
	v.SetConfigName("matchpdf")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("MATCHPDF")
	v.AutomaticEnv()

	v.SetDefault("target_height", geometry.TargetHeight)
	v.SetDefault("output_width_inches", 17.0)
	v.SetDefault("page_width_points", 612.0)
	v.SetDefault("page_height_points", 792.0)
	v.SetDefault("pdftoppm", "pdftoppm")
	v.SetDefault("pdfinfo", "pdfinfo")
	v.SetDefault("temp_dir", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
		logging.Log.Debug("no matchpdf.yaml found, using defaults")
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	return &s, nil
}
