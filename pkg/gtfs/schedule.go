package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

var (
	ErrMissingFile   = errors.New("missing gtfs file")
	ErrMissingColumn = errors.New("missing gtfs column")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Schedule struct {
	Stops     []Stop
	Routes    []Route
	Trips     []Trip
	StopTimes []StopTime

	// Charset label of the feed files, empty means utf-8
	Encoding string
}

type scheduleFile struct {
	name        string
	destination interface{}
	columns     []string
}

func (gtfs *Schedule) files() []scheduleFile {
	return []scheduleFile{
		{"stops.txt", &gtfs.Stops, []string{"stop_id", "stop_name", "stop_lat", "stop_lon"}},
		{"trips.txt", &gtfs.Trips, []string{"trip_id", "route_id", "direction_id"}},
		{"routes.txt", &gtfs.Routes, []string{"route_id", "route_short_name"}},
		{"stop_times.txt", &gtfs.StopTimes, []string{"trip_id", "stop_id", "stop_sequence", "arrival_time"}},
	}
}

// ParseFile reads a whole GTFS zip from reader
func (gtfs *Schedule) ParseFile(reader io.Reader) error {
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return err
	}

	return gtfs.ParseArchive(archive)
}

// ParseArchive decodes stops, trips, routes and stop_times from an open GTFS archive.
// All four files and their required columns must be present.
func (gtfs *Schedule) ParseArchive(archive *zip.Reader) error {
	zipFiles := map[string]*zip.File{}
	for _, zipFile := range archive.File {
		zipFiles[zipFile.Name] = zipFile
	}

	for _, file := range gtfs.files() {
		zipFile, exists := zipFiles[file.name]
		if !exists {
			return fmt.Errorf("%w: %s", ErrMissingFile, file.name)
		}
		delete(zipFiles, file.name)

		log.Debug().Str("file", file.name).Msg("Loading file")

		if err := gtfs.decodeFile(zipFile, file); err != nil {
			log.Error().Str("file", file.name).Err(err).Msg("Failed to parse csv file")
			return err
		}
	}

	for fileName := range zipFiles {
		log.Debug().Str("file", fileName).Msg("Ignoring gtfs file")
	}

	return nil
}

func (gtfs *Schedule) decodeFile(zipFile *zip.File, file scheduleFile) error {
	fileReader, err := zipFile.Open()
	if err != nil {
		return fmt.Errorf("%s: %w", file.name, err)
	}
	defer fileReader.Close()

	var decoded io.Reader = fileReader
	if gtfs.Encoding != "" && !strings.EqualFold(gtfs.Encoding, "utf-8") {
		decoded, err = charset.NewReaderLabel(gtfs.Encoding, fileReader)
		if err != nil {
			return fmt.Errorf("%s: %w", file.name, err)
		}
	}

	content, err := io.ReadAll(decoded)
	if err != nil {
		return fmt.Errorf("%s: %w", file.name, err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	if err := checkColumns(content, file); err != nil {
		return err
	}

	if err := gocsv.UnmarshalCSV(newCSVReader(content), file.destination); err != nil {
		return fmt.Errorf("%s: %w", file.name, err)
	}

	return nil
}

func checkColumns(content []byte, file scheduleFile) error {
	header, err := newCSVReader(content).Read()
	if err == io.EOF {
		return fmt.Errorf("%w: %s is empty", ErrMissingColumn, file.name)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", file.name, err)
	}

	present := map[string]bool{}
	for _, column := range header {
		present[strings.TrimSpace(column)] = true
	}

	for _, column := range file.columns {
		if !present[column] {
			return fmt.Errorf("%w: %s in %s", ErrMissingColumn, column, file.name)
		}
	}

	return nil
}

// Allow us to ignore those naughty records that have missing columns
func newCSVReader(content []byte) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	return r
}
