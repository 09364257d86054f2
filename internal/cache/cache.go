// Package cache provides filesystem-backed caching for resolved endpoint
// descriptions and other transient provider results.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/vidra-player/vidra/filesystem"
	"github.com/vidra-player/vidra/where"
)

const TTL = 7 * 24 * time.Hour

// GenerateKey generates a deterministic SHA-256 hash from a query and provider pair for use as a cache identifier.
func GenerateKey(query, provider string) string {
	sanitized := strings.ToLower(strings.ReplaceAll(query, " ", "")) + provider
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}

// Read attempts to retrieve and deserialize a cached object if it exists and has not exceeded its TTL.
func Read(key string, target interface{}) bool {
	path := filepath.Join(where.Cache(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}

	return json.Unmarshal(data, target) == nil
}

// Write persists a serializable object to the cache using an atomic file swap to ensure data integrity.
func Write(key string, data interface{}) error {
	path := filepath.Join(where.Cache(), key)
	tmpPath := path + ".tmp"

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := filesystem.API().WriteFile(tmpPath, encoded, 0644); err != nil {
		return err
	}

	return filesystem.API().Rename(tmpPath, path)
}

// CollectGarbage initializes an asynchronous background task to prune expired cache entries from the filesystem.
func CollectGarbage() {
	go func() {
		entries, err := filesystem.API().ReadDir(where.Cache())
		if err != nil {
			return
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if time.Since(entry.ModTime()) > TTL {
				_ = filesystem.API().Remove(filepath.Join(where.Cache(), entry.Name()))
			}
		}
	}()
}
