package dataset

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Feed is one GTFS archive nested inside the outer archive
type Feed struct {
	Name    string
	Archive *zip.Reader
}

// Feeds opens every inner zip accepted by selector. Feeds come back sorted by
// name so the output of a run does not depend on the archive's entry order.
func Feeds(archive *zip.Reader, selector FeedSelector) ([]Feed, error) {
	var feeds []Feed

	for _, zipFile := range archive.File {
		if zipFile.FileInfo().IsDir() || !strings.EqualFold(path.Ext(zipFile.Name), ".zip") {
			continue
		}

		selected, err := selector.Select(zipFile.Name)
		if err != nil {
			return nil, err
		}
		if !selected {
			log.Debug().Str("feed", zipFile.Name).Msg("Skipping feed")
			continue
		}

		feedArchive, err := openInner(zipFile)
		if err != nil {
			return nil, fmt.Errorf("open feed %s: %w", zipFile.Name, err)
		}

		feeds = append(feeds, Feed{
			Name:    zipFile.Name,
			Archive: feedArchive,
		})
	}

	sort.Slice(feeds, func(i, j int) bool {
		return feeds[i].Name < feeds[j].Name
	})

	log.Info().Int("length", len(feeds)).Msg("Selected feeds")

	return feeds, nil
}

func openInner(zipFile *zip.File) (*zip.Reader, error) {
	file, err := zipFile.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return zip.NewReader(bytes.NewReader(body), int64(len(body)))
}
