package stationgraph

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travigo/metrograph/pkg/dataset"
	"github.com/travigo/metrograph/pkg/gtfs/gtfstest"
)

func TestBuildExportDeduplicatesStations(t *testing.T) {
	edges := []DirectedEdge{
		{Start: "Châtelet", End: "Louvre", Latitude: 48.858, Longitude: 2.347, EndLatitude: 48.86, EndLongitude: 2.34, Accessibility: true, Time: 60, Line: "1"},
		{Start: "Louvre", End: "Châtelet", Latitude: 1, Longitude: 1, EndLatitude: 2, EndLongitude: 2, Accessibility: true, Time: 70, Line: "1"},
		{Start: "Châtelet", End: "Hôtel de Ville", Latitude: 3, Longitude: 3, EndLatitude: 48.857, EndLongitude: 2.352, Accessibility: true, Time: 80, Line: "1"},
		{Start: "Châtelet", End: "Pyramides", Latitude: 4, Longitude: 4, EndLatitude: 48.866, EndLongitude: 2.334, Accessibility: true, Time: 90, Line: "14"},
		{Start: "Pyramides", End: "Châtelet", Latitude: 5, Longitude: 5, EndLatitude: 6, EndLongitude: 6, Accessibility: true, Time: 95, Line: "14"},
	}

	export := BuildExport(edges, "Station", "SUBWAY")

	names := []string{}
	for _, station := range export.Stations {
		names = append(names, station.Name)
	}
	assert.Equal(t, []string{"Châtelet", "Louvre", "Hôtel de Ville", "Pyramides"}, names)
	assert.Equal(t, Station{Name: "Châtelet", Latitude: 48.858, Longitude: 2.347, Accessibility: true, Label: "Station"}, export.Stations[0])
	assert.Equal(t, 48.86, export.Stations[1].Latitude)
	assert.Len(t, export.Edges, 5)
	assert.Equal(t, Edge{Start: "Pyramides", Time: 95, Line: "14", End: "Châtelet", Type: "SUBWAY"}, export.Edges[4])
}

func TestWriteCSV(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "out")
	export := BuildExport([]DirectedEdge{
		{Start: "A", End: "B", Time: 150, Latitude: 48.85, Longitude: 2.35, EndLatitude: 48.86, EndLongitude: 2.36, Accessibility: true, Line: "14"},
	}, DefaultNodeLabel, DefaultRelationshipType)

	require.NoError(t, export.WriteCSV(directory))

	nodes, err := os.ReadFile(filepath.Join(directory, NodesFileName))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"name:ID,lat:float,lon:float,accessibility:boolean,:LABEL",
		"A,48.85,2.35,true,Station",
		"B,48.86,2.36,true,Station",
	}, strings.Split(strings.TrimSpace(string(nodes)), "\n"))

	relations, err := os.ReadFile(filepath.Join(directory, RelationsFileName))
	require.NoError(t, err)
	assert.Equal(t, []string{
		":START_ID,time:float,line:string,:END_ID,:TYPE",
		"A,150,14,B,SUBWAY",
	}, strings.Split(strings.TrimSpace(string(relations)), "\n"))
}

func TestWriteCSVEmpty(t *testing.T) {
	directory := t.TempDir()

	require.NoError(t, BuildExport(nil, DefaultNodeLabel, DefaultRelationshipType).WriteCSV(directory))

	relations, err := os.ReadFile(filepath.Join(directory, RelationsFileName))
	require.NoError(t, err)
	assert.Equal(t, ":START_ID,time:float,line:string,:END_ID,:TYPE", strings.TrimSpace(string(relations)))
}

func TestPipelineIsIdempotent(t *testing.T) {
	outer := gtfstest.Zip(t, gtfstest.Files{
		"RATP_GTFS_METRO_7.zip": {string(gtfstest.Zip(t, branchingLine()))},
		"RATP_GTFS_METRO_1.zip": {string(gtfstest.Zip(t, gtfstest.Line("1")))},
		"RATP_GTFS_TRAM_T2.zip": {string(gtfstest.Zip(t, gtfstest.Line("T2")))},
	})
	source := filepath.Join(t.TempDir(), "RATP.zip")
	require.NoError(t, os.WriteFile(source, outer, 0o644))

	run := func(directory string) {
		archive, err := dataset.Open(context.Background(), source)
		require.NoError(t, err)
		selector, err := dataset.NewExprSelector(dataset.DefaultFeedFilter)
		require.NoError(t, err)
		feeds, err := dataset.Feeds(archive, selector)
		require.NoError(t, err)

		accumulator, err := ProcessFeedSet(feeds, FeedOptions{AllowExtendedHours: true})
		require.NoError(t, err)

		export := BuildExport(accumulator.Edges(), DefaultNodeLabel, DefaultRelationshipType)
		require.NoError(t, export.WriteCSV(directory))
	}

	first := t.TempDir()
	second := t.TempDir()
	run(first)
	run(second)

	for _, name := range []string{NodesFileName, RelationsFileName} {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), name)
	}

	relations, err := os.ReadFile(filepath.Join(first, RelationsFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(relations), "T2")
	assert.Contains(t, string(relations), "Place d'Italie,120,7,Tolbiac,SUBWAY")
}

// branchingLine has a full and a short working in direction 0, and a
// single trip in direction 1
func branchingLine() gtfstest.Files {
	return gtfstest.Feed(gtfstest.Files{
		"stops.txt": {
			"stop_id,stop_name,stop_lat,stop_lon",
			"p1,Place d'Italie,48.831,2.355",
			"p2,Tolbiac,48.826,2.357",
			"p3,Maison Blanche,48.822,2.358",
		},
		"routes.txt": {
			"route_id,agency_id,route_short_name,route_type",
			"r7,RATP,7,1",
		},
		"trips.txt": {
			"route_id,service_id,trip_id,direction_id",
			"r7,svc,full1,0",
			"r7,svc,full2,0",
			"r7,svc,short,0",
			"r7,svc,back,1",
		},
		"stop_times.txt": {
			"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
			"full1,06:00:00,06:00:00,p1,1",
			"full1,06:01:30,06:01:30,p2,2",
			"full1,06:03:00,06:03:00,p3,3",
			"full2,07:00:00,07:00:00,p1,1",
			"full2,07:02:30,07:02:30,p2,2",
			"full2,07:04:00,07:04:00,p3,3",
			"short,08:00:00,08:00:00,p1,1",
			"short,08:10:00,08:10:00,p2,2",
			"back,09:00:00,09:00:00,p3,1",
			"back,09:02:00,09:02:00,p2,2",
			"back,09:04:00,09:04:00,p1,3",
		},
	})
}
