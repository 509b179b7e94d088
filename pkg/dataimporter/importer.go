package dataimporter

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/travigo/metrograph/pkg/config"
	"github.com/travigo/metrograph/pkg/database"
	"github.com/travigo/metrograph/pkg/dataset"
	"github.com/travigo/metrograph/pkg/stationgraph"
)

// BuildGraph downloads the source archive and aggregates every selected feed.
// Nothing is written, so a failure leaves no partial output behind.
func BuildGraph(ctx context.Context, cfg config.Config) (stationgraph.Export, error) {
	startTime := time.Now()

	selector, err := dataset.NewExprSelector(cfg.FeedFilter)
	if err != nil {
		return stationgraph.Export{}, err
	}

	archive, err := dataset.Open(ctx, cfg.SourceURL)
	if err != nil {
		return stationgraph.Export{}, err
	}

	feeds, err := dataset.Feeds(archive, selector)
	if err != nil {
		return stationgraph.Export{}, err
	}

	accumulator, err := stationgraph.ProcessFeedSet(feeds, cfg.FeedOptions())
	if err != nil {
		return stationgraph.Export{}, err
	}

	export := stationgraph.BuildExport(accumulator.Edges(), cfg.NodeLabel, cfg.RelationshipType)

	log.Info().
		Int("stations", len(export.Stations)).
		Int("edges", len(export.Edges)).
		Msgf("Built graph in %s", time.Since(startTime).String())

	return export, nil
}

// WriteOutputs writes the CSV pair and, when configured, the SQLite snapshot
func WriteOutputs(ctx context.Context, cfg config.Config, export stationgraph.Export) error {
	if err := export.WriteCSV(cfg.OutputDir); err != nil {
		return err
	}

	if cfg.SQLite.Path == "" {
		return nil
	}

	db, err := database.Open(cfg.SQLite.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.WriteExport(ctx, export)
}
