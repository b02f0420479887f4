package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// envMappings maps environment variables to koanf paths. Unlisted variables are ignored.
var envMappings = map[string]string{
	"dataset_path":         "dataset.path",
	"dataset_nights":       "dataset.nights",
	"data_source":          "dataset.source",
	"amenity_separator":    "dataset.amenity_separator",
	"database_url":         "database.url",
	"db_max_retries":       "database.max_retries",
	"persist_results":      "database.persist",
	"import_dataset":       "database.import",
	"target_name":          "target.name",
	"target_latitude":      "target.latitude",
	"target_longitude":     "target.longitude",
	"target_bedrooms":      "target.bedrooms",
	"target_bathrooms":     "target.bathrooms",
	"target_area_m2":       "target.area_m2",
	"target_rating":        "target.rating",
	"target_amenities":     "target.amenities",
	"radius_km":            "analysis.radius_km",
	"top_n":                "analysis.top_n",
	"display_top":          "analysis.display_top",
	"min_reviews":          "analysis.min_reviews",
	"rating_tolerance":     "analysis.rating_tolerance",
	"area_tolerance":       "analysis.area_tolerance",
	"current_price":        "analysis.current_price",
	"ml_enabled":           "ml.enabled",
	"ml_top_n":             "ml.top_n",
	"ml_seed":              "ml.seed",
	"ml_trees":             "ml.trees",
	"ml_max_depth":         "ml.max_depth",
	"comparables_csv_path": "output.comparables_csv",
	"report_json_path":     "output.report_json",
	"log_level":            "log.level",
	"log_format":           "log.format",
}

// sliceConfigPaths are read from the environment as comma-separated lists
var sliceConfigPaths = []string{"target.amenities"}

// Load builds the configuration from defaults, then an optional YAML file,
// then environment variables, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
