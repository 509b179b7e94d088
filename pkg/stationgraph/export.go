package stationgraph

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultNodeLabel        = "Station"
	DefaultRelationshipType = "SUBWAY"

	NodesFileName     = "nodes_ALL.csv"
	RelationsFileName = "relations_ALL.csv"
)

// Headers follow the neo4j-admin import conventions

type Station struct {
	Name          string  `csv:"name:ID"`
	Latitude      float64 `csv:"lat:float"`
	Longitude     float64 `csv:"lon:float"`
	Accessibility bool    `csv:"accessibility:boolean"`
	Label         string  `csv:":LABEL"`
}

type Edge struct {
	Start string  `csv:":START_ID"`
	Time  float64 `csv:"time:float"`
	Line  string  `csv:"line:string"`
	End   string  `csv:":END_ID"`
	Type  string  `csv:":TYPE"`
}

type Export struct {
	Stations []Station
	Edges    []Edge
}

// BuildExport splits the accumulated edges into stations and relationships.
// Stations are unique by name, the first occurrence gives the coordinates.
func BuildExport(edges []DirectedEdge, nodeLabel string, relationshipType string) Export {
	export := Export{
		Stations: []Station{},
		Edges:    make([]Edge, 0, len(edges)),
	}
	seen := map[string]bool{}

	addStation := func(name string, latitude float64, longitude float64, accessibility bool) {
		if seen[name] {
			return
		}
		seen[name] = true

		export.Stations = append(export.Stations, Station{
			Name:          name,
			Latitude:      latitude,
			Longitude:     longitude,
			Accessibility: accessibility,
			Label:         nodeLabel,
		})
	}

	for _, edge := range edges {
		addStation(edge.Start, edge.Latitude, edge.Longitude, edge.Accessibility)
		addStation(edge.End, edge.EndLatitude, edge.EndLongitude, edge.Accessibility)

		export.Edges = append(export.Edges, Edge{
			Start: edge.Start,
			Time:  edge.Time,
			Line:  edge.Line,
			End:   edge.End,
			Type:  relationshipType,
		})
	}

	return export
}

// WriteCSV writes nodes_ALL.csv and relations_ALL.csv into directory, creating it if needed
func (e Export) WriteCSV(directory string) error {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return err
	}

	if err := writeCSVFile(filepath.Join(directory, NodesFileName), &e.Stations); err != nil {
		return err
	}
	if err := writeCSVFile(filepath.Join(directory, RelationsFileName), &e.Edges); err != nil {
		return err
	}

	log.Info().
		Str("directory", directory).
		Int("stations", len(e.Stations)).
		Int("edges", len(e.Edges)).
		Msg("Written graph CSV files")

	return nil
}

func writeCSVFile(path string, rows interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := gocsv.MarshalFile(rows, file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return file.Close()
}
