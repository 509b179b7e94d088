package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/travigo/metrograph/pkg/dataset"
	"github.com/travigo/metrograph/pkg/stationgraph"
	"github.com/travigo/metrograph/pkg/util"
)

const (
	DefaultSourceURL = "http://dataratp.download.opendatasoft.com/RATP_GTFS_LINES.zip"
	DefaultOutputDir = "out/"

	environmentPrefix = "METROGRAPH_"
)

type Neo4jConfig struct {
	URI      string `yaml:"uri" validate:"omitempty,uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// Delete the previous graph of the same label and type before loading
	Replace bool `yaml:"replace"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type Config struct {
	SourceURL string `yaml:"source_url" validate:"required"`
	OutputDir string `yaml:"output_dir" validate:"required"`

	NodeLabel        string `yaml:"node_label" validate:"required,graphidentifier"`
	RelationshipType string `yaml:"relationship_type" validate:"required,graphidentifier"`

	FeedFilter         string `yaml:"feed_filter" validate:"required"`
	AllowExtendedHours bool   `yaml:"allow_extended_hours"`
	Encoding           string `yaml:"encoding"`
	SkipBrokenFeeds    bool   `yaml:"skip_broken_feeds"`

	Neo4j  Neo4jConfig  `yaml:"neo4j"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

func Default() Config {
	return Config{
		SourceURL:          DefaultSourceURL,
		OutputDir:          DefaultOutputDir,
		NodeLabel:          stationgraph.DefaultNodeLabel,
		RelationshipType:   stationgraph.DefaultRelationshipType,
		FeedFilter:         dataset.DefaultFeedFilter,
		AllowExtendedHours: true,
		Encoding:           "utf-8",
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost",
			Username: "neo4j",
			Database: "neo4j",
		},
	}
}

// Load builds the configuration from the defaults, the yaml file at path (when not empty)
// and METROGRAPH_* environment variables, in that order, then validates it.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		configYaml, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}

		if err := yaml.Unmarshal(configYaml, &config); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := config.applyEnvironment(util.GetEnvironmentVariables(environmentPrefix)); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	log.Debug().Msgf("Loaded config %s", pretty.Sprint(config.Redacted()))

	return config, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	stringFields := map[string]*string{
		"SOURCE_URL":        &c.SourceURL,
		"OUTPUT_DIR":        &c.OutputDir,
		"NODE_LABEL":        &c.NodeLabel,
		"RELATIONSHIP_TYPE": &c.RelationshipType,
		"FEED_FILTER":       &c.FeedFilter,
		"ENCODING":          &c.Encoding,
		"NEO4J_URI":         &c.Neo4j.URI,
		"NEO4J_USERNAME":    &c.Neo4j.Username,
		"NEO4J_PASSWORD":    &c.Neo4j.Password,
		"NEO4J_DATABASE":    &c.Neo4j.Database,
		"SQLITE_PATH":       &c.SQLite.Path,
	}
	for key, destination := range stringFields {
		if value, exists := env[key]; exists && value != "" {
			*destination = value
		}
	}

	boolFields := map[string]*bool{
		"ALLOW_EXTENDED_HOURS": &c.AllowExtendedHours,
		"SKIP_BROKEN_FEEDS":    &c.SkipBrokenFeeds,
		"NEO4J_REPLACE":        &c.Neo4j.Replace,
	}
	for key, destination := range boolFields {
		value, exists := env[key]
		if !exists || value == "" {
			continue
		}

		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s%s: %w", environmentPrefix, key, err)
		}
		*destination = parsed
	}

	return nil
}

func (c Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := dataset.NewExprSelector(c.FeedFilter); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

func (c Config) FeedOptions() stationgraph.FeedOptions {
	return stationgraph.FeedOptions{
		Encoding:           c.Encoding,
		AllowExtendedHours: c.AllowExtendedHours,
		SkipBrokenFeeds:    c.SkipBrokenFeeds,
	}
}

// Redacted is a copy safe to log
func (c Config) Redacted() Config {
	if c.Neo4j.Password != "" {
		c.Neo4j.Password = "REDACTED"
	}
	return c
}
