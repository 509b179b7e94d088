package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/rs/zerolog/log"
)

// Open returns the outer archive at source, downloading it first when source is a URL.
// There is a single attempt, any failure aborts.
func Open(ctx context.Context, source string) (*zip.Reader, error) {
	var body []byte
	var err error

	if isValidUrl(source) {
		body, err = download(ctx, http.DefaultClient, source)
	} else {
		log.Info().Str("path", source).Msg("Reading local archive")
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", source, err)
	}

	return archive, nil
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

func download(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	log.Info().Str("url", source).Msg("Downloading archive")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "curl/7.54.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download %s: unexpected status %s", source, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", source, err)
	}

	log.Info().Str("url", source).Int("bytes", len(body)).Msg("Downloaded archive")

	return body, nil
}
