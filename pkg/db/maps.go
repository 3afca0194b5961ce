package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yumyai/keggmap/internal/util"
	"github.com/yumyai/keggmap/pkg/imageutil"
	"github.com/yumyai/keggmap/pkg/model"
)

var (
	ErrOrgNotDownloaded = errors.New("organism has not been downloaded")
	ErrBadConfName      = errors.New("conf file does not start with a map id")
)

const nonExistentFile = "non-existent.json"

// MapDB is the data folder holding downloaded KEGG files:
//
//	rest_data/<file>.tsv
//	maps_data/<org>/<map_id>.conf
//	maps_data/<org>/non-existent.json
//	maps_png/<map_id>.png(.json)
type MapDB struct {
	Dir string
}

func NewMapDB(dir string) (*MapDB, error) {
	if !util.DirExists(dir) {
		return nil, fmt.Errorf("%w: data directory %s", os.ErrNotExist, dir)
	}
	return &MapDB{Dir: dir}, nil
}

// EnsureLayout creates the folders the downloader writes into.
func (m *MapDB) EnsureLayout(orgs ...string) error {
	dirs := []string{
		filepath.Join(m.Dir, "rest_data"),
		filepath.Join(m.Dir, "maps_png"),
	}
	for _, org := range orgs {
		dirs = append(dirs, m.orgDir(org))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (m *MapDB) RestPath(file string) string {
	return filepath.Join(m.Dir, "rest_data", file+".tsv")
}

func (m *MapDB) ConfPath(org, mapID string) string {
	return filepath.Join(m.orgDir(org), mapID+".conf")
}

func (m *MapDB) PNGPath(mapID string) string {
	return filepath.Join(m.Dir, "maps_png", mapID+".png")
}

// SQLitePath is where the rest data database lives.
func (m *MapDB) SQLitePath() string {
	return filepath.Join(m.Dir, "rest_data", "rest.db")
}

func (m *MapDB) orgDir(org string) string {
	return filepath.Join(m.Dir, "maps_data", org)
}

// AvailableMaps returns the sorted union of map ids with a conf file for any of
// orgs. Every organism must have been downloaded.
func (m *MapDB) AvailableMaps(orgs []string) ([]string, error) {

	ids := map[string]struct{}{}
	for _, org := range orgs {
		dir := m.orgDir(org)
		if !util.DirExists(dir) {
			return nil, fmt.Errorf("%w: %s (%s is missing)", ErrOrgNotDownloaded, org, dir)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			mapID, ok := strings.CutSuffix(e.Name(), ".conf")
			if !ok || e.IsDir() {
				continue
			}
			if !model.ValidMapID(mapID) {
				return nil, fmt.Errorf("%w: %s", ErrBadConfName, filepath.Join(dir, e.Name()))
			}
			ids[mapID] = struct{}{}
		}
	}
	return sortedKeys(ids), nil
}

// PNGMaps lists the map ids whose png has been downloaded.
func (m *MapDB) PNGMaps() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(m.Dir, "maps_png"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ids := map[string]struct{}{}
	for _, e := range entries {
		if mapID, ok := strings.CutSuffix(e.Name(), ".png"); ok {
			ids[mapID] = struct{}{}
		}
	}
	return sortedKeys(ids), nil
}

func (m *MapDB) HasConfig(org, mapID string) bool {
	return util.FileExists(m.ConfPath(org, mapID))
}

func (m *MapDB) OpenConfig(org, mapID string) (io.ReadCloser, error) {
	return os.Open(m.ConfPath(org, mapID))
}

// LoadPNG returns the transparent background written by the downloader.
func (m *MapDB) LoadPNG(mapID string) (*imageutil.EncodedPNG, error) {
	return imageutil.Load(m.PNGPath(mapID) + ".json")
}

// NonExistent returns the urls KEGG answered with an empty 404 for org.
func (m *MapDB) NonExistent(org string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.orgDir(org), nonExistentFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("%s of %s: %w", nonExistentFile, org, err)
	}
	return urls, nil
}

func (m *MapDB) SaveNonExistent(org string, urls []string) error {
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.orgDir(org), nonExistentFile), data, 0o644)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
