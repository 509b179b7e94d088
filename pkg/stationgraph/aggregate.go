package stationgraph

import (
	"slices"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/travigo/metrograph/pkg/gtfs"
)

// DirectedEdge is the average travel time between two consecutive stations of a line
// in one direction. Latitude and Longitude are the coordinates of Start.
type DirectedEdge struct {
	Start string
	End   string
	Time  float64

	Latitude     float64
	Longitude    float64
	EndLatitude  float64
	EndLongitude float64

	Accessibility bool
	Line          string
}

type stationPair struct {
	start string
	end   string
}

type pairTotal struct {
	edge  DirectedEdge
	total float64
	count int
}

// AggregateDirection averages the travel time between consecutive stations over the
// trips of one direction. Only the trips with the most stops are used, shorter trips
// are assumed to be partial services (works, disruptions...).
func AggregateDirection(records []gtfs.JoinedRecord, direction int) []DirectedEdge {
	trips := map[string][]gtfs.JoinedRecord{}
	for _, record := range records {
		if record.DirectionID != direction {
			continue
		}
		trips[record.TripID] = append(trips[record.TripID], record)
	}

	maxSize := 0
	for _, stops := range trips {
		maxSize = max(maxSize, len(stops))
	}

	tripIDs := maps.Keys(trips)
	slices.Sort(tripIDs)
	line := ""
	pairs := map[stationPair]*pairTotal{}

	for _, tripID := range tripIDs {
		stops := trips[tripID]
		if len(stops) != maxSize {
			continue
		}

		// ensure station order is correct
		sort.SliceStable(stops, func(i, j int) bool {
			return stops[i].StopSequence < stops[j].StopSequence
		})

		if line == "" {
			line = stops[0].RouteShortName
		}

		for index := 1; index < len(stops); index++ {
			previous := stops[index-1]
			current := stops[index]

			key := stationPair{start: previous.StopName, end: current.StopName}
			pair, exists := pairs[key]
			if !exists {
				pair = &pairTotal{
					edge: DirectedEdge{
						Start:         previous.StopName,
						End:           current.StopName,
						Latitude:      previous.Latitude,
						Longitude:     previous.Longitude,
						EndLatitude:   current.Latitude,
						EndLongitude:  current.Longitude,
						Accessibility: true,
					},
				}
				pairs[key] = pair
			}

			pair.total += float64(current.ArrivalSeconds - previous.ArrivalSeconds)
			pair.count++
		}
	}

	edges := make([]DirectedEdge, 0, len(pairs))
	for _, pair := range pairs {
		edge := pair.edge
		edge.Time = pair.total / float64(pair.count)
		edge.Line = line
		edges = append(edges, edge)
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Start != edges[j].Start {
			return edges[i].Start < edges[j].Start
		}
		return edges[i].End < edges[j].End
	})

	return edges
}
