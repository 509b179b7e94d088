package stationgraph

import (
	"archive/zip"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/travigo/metrograph/pkg/dataset"
	"github.com/travigo/metrograph/pkg/gtfs"
	"github.com/travigo/metrograph/pkg/util"
)

var directions = []int{0, 1}

type FeedOptions struct {
	// Charset label of the feed files
	Encoding           string
	AllowExtendedHours bool
	// Log and skip a feed that fails to load instead of aborting the run
	SkipBrokenFeeds bool
}

// Accumulator holds the edges collected so far. Add never modifies the receiver.
type Accumulator struct {
	edges []DirectedEdge
	feeds []string
}

func (a Accumulator) Add(feed string, edges []DirectedEdge) Accumulator {
	return Accumulator{
		edges: append(slices.Clip(a.edges), edges...),
		feeds: append(slices.Clip(a.feeds), feed),
	}
}

func (a Accumulator) Edges() []DirectedEdge {
	return a.edges
}

func (a Accumulator) Feeds() []string {
	return a.feeds
}

// ProcessFeed loads one GTFS archive and returns its edges for both directions,
// keeping only edges with a positive travel time.
func ProcessFeed(name string, archive *zip.Reader, opts FeedOptions) ([]DirectedEdge, error) {
	schedule := &gtfs.Schedule{Encoding: opts.Encoding}
	if err := schedule.ParseArchive(archive); err != nil {
		return nil, fmt.Errorf("feed %s: %w", name, err)
	}

	records := schedule.Join(gtfs.ArrivalTimeParser{AllowExtendedHours: opts.AllowExtendedHours})

	var edges []DirectedEdge
	for _, direction := range directions {
		directionEdges := AggregateDirection(records, direction)
		log.Debug().Str("feed", name).Int("direction", direction).Int("length", len(directionEdges)).Msg("Aggregated direction")

		edges = append(edges, directionEdges...)
	}

	util.InPlaceFilter(&edges, func(edge DirectedEdge) bool {
		return edge.Time > 0
	})

	return edges, nil
}

// ProcessFeedSet folds ProcessFeed over feeds in order
func ProcessFeedSet(feeds []dataset.Feed, opts FeedOptions) (Accumulator, error) {
	accumulator := Accumulator{}

	for _, feed := range feeds {
		log.Info().Str("feed", feed.Name).Msg("Processing feed")

		edges, err := ProcessFeed(feed.Name, feed.Archive, opts)
		if err != nil {
			if opts.SkipBrokenFeeds {
				log.Error().Err(err).Str("feed", feed.Name).Msg("Skipping broken feed")
				continue
			}
			return Accumulator{}, err
		}

		accumulator = accumulator.Add(feed.Name, edges)
	}

	log.Info().Int("feeds", len(accumulator.Feeds())).Int("length", len(accumulator.Edges())).Msg("Processed feeds")

	return accumulator, nil
}
