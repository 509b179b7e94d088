// Package gtfstest builds small in-memory GTFS archives for tests.
package gtfstest

import (
	"archive/zip"
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Files maps a file name inside the archive to its lines
type Files map[string][]string

// Zip writes files into a zip archive and returns its bytes. Entries are
// written in name order so identical input gives identical bytes.
func Zip(t *testing.T, files Files) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(strings.Join(files[name], "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// Reader is Zip opened as a *zip.Reader
func Reader(t *testing.T, files Files) *zip.Reader {
	t.Helper()

	body := Zip(t, files)
	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)

	return archive
}

// Feed fills in empty required files around the given ones
func Feed(files Files) Files {
	feed := Files{
		"stops.txt":      {"stop_id,stop_name,stop_lat,stop_lon"},
		"trips.txt":      {"route_id,service_id,trip_id,direction_id"},
		"routes.txt":     {"route_id,agency_id,route_short_name,route_type"},
		"stop_times.txt": {"trip_id,arrival_time,departure_time,stop_id,stop_sequence"},
	}
	for name, lines := range files {
		feed[name] = lines
	}

	return feed
}

// Line builds a single line feed with two stops, A and B, and one trip in
// direction 0 going from A (08:00:00) to B (08:02:30).
func Line(shortName string) Files {
	return Feed(Files{
		"stops.txt": {
			"stop_id,stop_name,stop_lat,stop_lon",
			"s1,A,48.85,2.35",
			"s2,B,48.86,2.36",
		},
		"routes.txt": {
			"route_id,agency_id,route_short_name,route_type",
			"r1,RATP," + shortName + ",1",
		},
		"trips.txt": {
			"route_id,service_id,trip_id,direction_id",
			"r1,svc,t1,0",
		},
		"stop_times.txt": {
			"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
			"t1,08:00:00,08:00:00,s1,1",
			"t1,08:02:30,08:02:30,s2,2",
		},
	})
}
