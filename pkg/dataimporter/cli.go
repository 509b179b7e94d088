package dataimporter

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/travigo/metrograph/pkg/config"
	"github.com/travigo/metrograph/pkg/journeygraph"
)

var commonFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a yaml config file",
		EnvVars: []string{"METROGRAPH_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "source",
		Usage: "URL or path of the archive holding one GTFS feed per line",
	},
	&cli.StringFlag{
		Name:  "output",
		Usage: "Directory the CSV files are written to",
	},
	&cli.StringFlag{
		Name:  "sqlite",
		Usage: "Also write the graph into this SQLite file",
	},
	&cli.BoolFlag{
		Name:  "skip-broken-feeds",
		Usage: "Log and skip feeds that fail to load instead of aborting",
	},
}

func RegisterCLI() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "build",
			Usage: "Convert the subway GTFS feeds into Neo4j import CSV files",
			Flags: commonFlags,
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}

				export, err := BuildGraph(c.Context, cfg)
				if err != nil {
					return err
				}

				return WriteOutputs(c.Context, cfg, export)
			},
		},
		{
			Name:  "load",
			Usage: "Build the station graph and load it into Neo4j",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "replace",
					Usage: "Delete the previously loaded stations and relationships first",
				},
			}, commonFlags...),
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				if c.IsSet("replace") {
					cfg.Neo4j.Replace = c.Bool("replace")
				}

				export, err := BuildGraph(c.Context, cfg)
				if err != nil {
					return err
				}

				if err := WriteOutputs(c.Context, cfg, export); err != nil {
					return err
				}

				loader, err := journeygraph.Connect(c.Context, cfg.Neo4j)
				if err != nil {
					return err
				}
				defer loader.Close(c.Context)

				return loader.Load(c.Context, export, cfg.NodeLabel, cfg.RelationshipType)
			},
		},
	}
}

// loadConfig applies the command line flags on top of the config file and environment
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if c.IsSet("source") {
		cfg.SourceURL = c.String("source")
	}
	if c.IsSet("output") {
		cfg.OutputDir = c.String("output")
	}
	if c.IsSet("sqlite") {
		cfg.SQLite.Path = c.String("sqlite")
	}
	if c.IsSet("skip-broken-feeds") {
		cfg.SkipBrokenFeeds = c.Bool("skip-broken-feeds")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	log.Info().Str("source", cfg.SourceURL).Str("output", cfg.OutputDir).Str("filter", cfg.FeedFilter).Msg("Loaded config")

	return cfg, nil
}
