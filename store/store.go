// Package store keeps client-side conveniences on disk: a short-lived cache
// of the catalog listings and the user's recently picked cities. Booking
// data is never persisted.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bookmymovie-cli/model"
)

const (
	catalogCacheTTL = 10 * time.Minute
	showCacheTTL    = 2 * time.Minute
	maxRecentCities = 8

	appDirName = "bookmymovie-cli"
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

// CatalogSnapshot is one joined fetch of the three listings.
type CatalogSnapshot struct {
	Movies   []model.Movie   `json:"movies"`
	Theaters []model.Theater `json:"theaters"`
	Shows    []model.Show    `json:"shows"`
}

type cityHistory struct {
	Cities []string `json:"cities"`
}

func LoadCatalogCache() (CatalogSnapshot, bool, error) {
	path, err := cachePath("catalog.json")
	if err != nil {
		return CatalogSnapshot{}, false, err
	}
	cache, err := loadCache[CatalogSnapshot](path)
	if err != nil {
		return CatalogSnapshot{}, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= catalogCacheTTL, nil
}

func SaveCatalogCache(snapshot CatalogSnapshot) error {
	path, err := cachePath("catalog.json")
	if err != nil {
		return err
	}
	return saveCache(path, snapshot)
}

// LoadShowCache returns cached shows for one movie. Show data carries seat
// counts, so its TTL is much shorter than the catalog's. Seat charts are
// never cached at all: the backend is authoritative for seat state.
func LoadShowCache(movieID int) ([]model.Show, bool, error) {
	path, err := cachePath(fmt.Sprintf("shows_movie_%d.json", movieID))
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Show](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= showCacheTTL, nil
}

func SaveShowCache(movieID int, shows []model.Show) error {
	path, err := cachePath(fmt.Sprintf("shows_movie_%d.json", movieID))
	if err != nil {
		return err
	}
	return saveCache(path, shows)
}

func LoadRecentCities() ([]string, error) {
	path, err := configPath("history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history cityHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid city history format")
	}
	return history.Cities, nil
}

// RememberCity moves a city to the front of the history, deduplicated.
func RememberCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errors.New("city is required")
	}

	history, _ := LoadRecentCities()
	next := []string{city}
	for _, existing := range history {
		if strings.EqualFold(existing, city) {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentCities {
			break
		}
	}
	return saveRecentCities(next)
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func saveRecentCities(cities []string) error {
	path, err := configPath("history.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	history := cityHistory{Cities: cities}
	payload, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}
