package journeygraph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"

	"github.com/travigo/metrograph/pkg/config"
	"github.com/travigo/metrograph/pkg/stationgraph"
)

type Loader struct {
	driver   neo4j.DriverWithContext
	database string
	replace  bool
}

func Connect(ctx context.Context, neo4jConfig config.Neo4jConfig) (*Loader, error) {
	driver, err := neo4j.NewDriverWithContext(
		neo4jConfig.URI,
		neo4j.BasicAuth(neo4jConfig.Username, neo4jConfig.Password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connect to neo4j %s: %w", neo4jConfig.URI, err)
	}

	log.Info().Str("uri", neo4jConfig.URI).Msg("Connected to Neo4j")

	return &Loader{
		driver:   driver,
		database: neo4jConfig.Database,
		replace:  neo4jConfig.Replace,
	}, nil
}

func (l *Loader) Close(ctx context.Context) error {
	return l.driver.Close(ctx)
}

// Load writes stations and edges in a single transaction. Stations are merged
// on name so loading twice does not duplicate nodes.
func (l *Loader) Load(ctx context.Context, export stationgraph.Export, nodeLabel string, relationshipType string) error {
	statements, err := loadStatements(nodeLabel, relationshipType, l.replace)
	if err != nil {
		return err
	}

	session := l.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.database})
	defer session.Close(ctx)

	parameters := map[string]any{
		"stations": stationRows(export.Stations),
		"edges":    edgeRows(export.Edges),
	}

	_, err = session.ExecuteWrite(ctx,
		func(tx neo4j.ManagedTransaction) (any, error) {
			for _, statement := range statements {
				if _, err := tx.Run(ctx, statement, parameters); err != nil {
					return nil, err
				}
			}

			return nil, nil
		})
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	log.Info().
		Int("stations", len(export.Stations)).
		Int("edges", len(export.Edges)).
		Msg("Loaded graph into Neo4j")

	return nil
}

// Labels and types cannot be query parameters, so they are checked before
// being formatted into the statements.
func loadStatements(nodeLabel string, relationshipType string, replace bool) ([]string, error) {
	if !config.IsGraphIdentifier(nodeLabel) {
		return nil, fmt.Errorf("invalid node label %q", nodeLabel)
	}
	if !config.IsGraphIdentifier(relationshipType) {
		return nil, fmt.Errorf("invalid relationship type %q", relationshipType)
	}

	var statements []string

	if replace {
		statements = append(statements,
			fmt.Sprintf("MATCH (:%s)-[r:%s]->(:%s) DELETE r", nodeLabel, relationshipType, nodeLabel),
			fmt.Sprintf("MATCH (s:%s) WHERE NOT (s)--() DELETE s", nodeLabel),
		)
	}

	statements = append(statements,
		fmt.Sprintf(`
			UNWIND $stations AS station
			MERGE (s:%s {name: station.name})
			SET s.lat = station.lat, s.lon = station.lon, s.accessibility = station.accessibility
		`, nodeLabel),
		fmt.Sprintf(`
			UNWIND $edges AS edge
			MATCH (a:%s {name: edge.start})
			MATCH (b:%s {name: edge.end})
			CREATE (a)-[:%s {time: edge.time, line: edge.line}]->(b)
		`, nodeLabel, nodeLabel, relationshipType),
	)

	return statements, nil
}

func stationRows(stations []stationgraph.Station) []map[string]any {
	rows := make([]map[string]any, 0, len(stations))
	for _, station := range stations {
		rows = append(rows, map[string]any{
			"name":          station.Name,
			"lat":           station.Latitude,
			"lon":           station.Longitude,
			"accessibility": station.Accessibility,
		})
	}
	return rows
}

func edgeRows(edges []stationgraph.Edge) []map[string]any {
	rows := make([]map[string]any, 0, len(edges))
	for _, edge := range edges {
		rows = append(rows, map[string]any{
			"start": edge.Start,
			"end":   edge.End,
			"time":  edge.Time,
			"line":  edge.Line,
		})
	}
	return rows
}
