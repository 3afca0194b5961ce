package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/yumyai/keggmap/internal/util"
	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/db"
	"github.com/yumyai/keggmap/pkg/imageutil"
	"github.com/yumyai/keggmap/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNonExistent is returned when KEGG answers 404 with an empty body: the
// resource does not exist for this organism.
var ErrNonExistent = errors.New("non-existent on KEGG")

const (
	DefaultRestURL = "http://rest.kegg.jp"
	DefaultPNGURL  = "https://www.genome.jp/kegg/pathway/map"
)

type Downloader struct {
	Client   *http.Client
	RestURL  string
	PNGURL   string
	Store    *db.KeggDB
	Parallel int
	Attempts int
	Backoff  time.Duration
}

func NewDownloader(store *db.KeggDB) *Downloader {
	return &Downloader{
		Client:   &http.Client{Timeout: 2 * time.Minute},
		RestURL:  DefaultRestURL,
		PNGURL:   DefaultPNGURL,
		Store:    store,
		Parallel: 4,
		Attempts: 3,
		Backoff:  time.Second,
	}
}

func (d *Downloader) RestListURL(key string) string {
	return fmt.Sprintf("%s/list/%s", d.RestURL, key)
}

func (d *Downloader) ConfURL(org, mapID string) string {
	return fmt.Sprintf("%s/get/%s%s/conf", d.RestURL, org, mapID)
}

func (d *Downloader) PNGURLFor(mapID string) string {
	return fmt.Sprintf("%s/map%s.png", d.PNGURL, mapID)
}

// Fetch downloads url to savePath unless the file is already there. A partial
// download never leaves a file behind.
func (d *Downloader) Fetch(ctx context.Context, url, savePath string, reload bool) (bool, error) {

	if !reload && util.FileExists(savePath) {
		logger.Debug("Already downloaded", zap.String("path", savePath))
		return false, nil
	}

	logger.Info("Downloading", zap.String("url", url))

	err := Retry(ctx, d.Attempts, d.Backoff, func() error {
		return d.fetchOnce(ctx, url, savePath)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *Downloader) fetchOnce(ctx context.Context, url, savePath string) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &RetryableError{Err: fmt.Errorf("GET %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch {
		case resp.StatusCode == http.StatusNotFound && len(body) == 0:
			return fmt.Errorf("%w: %s", ErrNonExistent, url)
		case resp.StatusCode >= 500:
			return &RetryableError{Err: fmt.Errorf("GET %s: status %d", url, resp.StatusCode)}
		default:
			return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, body)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(savePath), filepath.Base(savePath)+".*.part")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return &RetryableError{Err: fmt.Errorf("reading %s: %w", url, err)}
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), savePath)
}

// RestFiles lists the rest lists needed to describe annotations of orgs.
func RestFiles(orgs []string) []string {
	var files []string
	for _, f := range append(model.RestFiles(), orgs...) {
		if !slices.Contains(files, f) {
			files = append(files, f)
		}
	}
	return files
}

// DownloadRestData fetches every rest list in parallel and imports it.
func (d *Downloader) DownloadRestData(ctx context.Context, orgs []string, reload bool) error {

	if err := d.Store.Maps.EnsureLayout(orgs...); err != nil {
		return err
	}
	known, err := d.Store.Rest.Files(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.Parallel, 1))

	for _, file := range RestFiles(orgs) {
		g.Go(func() error {
			savePath := d.Store.Maps.RestPath(file)
			fresh, err := d.Fetch(ctx, d.RestListURL(file), savePath, reload)
			if err != nil {
				return fmt.Errorf("rest list %s: %w", file, err)
			}
			if !fresh && slices.Contains(known, file) {
				return nil
			}
			return d.importRest(ctx, file, savePath)
		})
	}
	return g.Wait()
}

func (d *Downloader) importRest(ctx context.Context, file, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := d.Store.Rest.Import(ctx, file, f)
	if err != nil {
		return err
	}
	logger.Info("Imported rest list", zap.String("file", file), zap.Int("rows", n))
	return nil
}

// DownloadMaps fetches the map images, then the configs of org for every map
// whose image exists. Urls KEGG does not know are remembered and skipped.
func (d *Downloader) DownloadMaps(ctx context.Context, org string, mapIDs []string, reload bool) error {

	maps := d.Store.Maps
	if err := maps.EnsureLayout(org); err != nil {
		return err
	}

	nonExistent, err := maps.NonExistent(org)
	if err != nil {
		return err
	}
	remember := func(url string) error {
		nonExistent = append(nonExistent, url)
		return maps.SaveNonExistent(org, nonExistent)
	}

	for _, mapID := range mapIDs {
		url := d.PNGURLFor(mapID)
		if slices.Contains(nonExistent, url) {
			continue
		}

		savePath := maps.PNGPath(mapID)
		fresh, err := d.Fetch(ctx, url, savePath, reload)
		if errors.Is(err, ErrNonExistent) {
			logger.Warn("Non-existent map image", zap.String("url", url))
			if err := remember(url); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if fresh || !util.FileExists(savePath+".json") {
			if _, err := imageutil.ConvertFile(savePath); err != nil {
				return err
			}
		}
	}

	found, err := maps.PNGMaps()
	if err != nil {
		return err
	}

	for _, mapID := range mapIDs {
		if !slices.Contains(found, mapID) {
			continue
		}
		url := d.ConfURL(org, mapID)
		if slices.Contains(nonExistent, url) {
			continue
		}

		_, err := d.Fetch(ctx, url, maps.ConfPath(org, mapID), reload)
		if errors.Is(err, ErrNonExistent) {
			logger.Warn("Non-existent map config", zap.String("org", org), zap.String("map_id", mapID))
			if err := remember(url); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
