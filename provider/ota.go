package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/vidra-player/vidra/filesystem"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/where"
)

// RepoRawURL hosts the curated provider scripts.
const RepoRawURL = "https://raw.githubusercontent.com/vidra-player/vidra-providers/main/providers/"

// curated is the set of provider scripts updated over the air.
var curated = []string{"common.lua", "vidra.lua"}

// UpdateProviders fetches the curated provider scripts and swaps any that
// changed, comparing SHA-256 hashes to avoid redundant disk writes.
// It returns the number of updated scripts.
func UpdateProviders(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := &http.Client{}

	updated := 0
	for _, file := range curated {
		if updateSingleFile(ctx, client, file) {
			updated++
		}
	}

	if updated > 0 {
		log.Infof("provider updates completed, %d script(s) changed", updated)
	} else {
		log.Info("provider check completed, no updates available")
	}
	return updated
}

func updateSingleFile(ctx context.Context, client *http.Client, filename string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, RepoRawURL+filename, nil)
	if err != nil {
		log.Warnf("failed to create update request for %s: %v", filename, err)
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Warnf("update network failure for %s: %v", filename, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("update returned non-200 for %s: %d", filename, resp.StatusCode)
		return false
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}

	remoteHashRaw := sha256.Sum256(bodyBytes)
	remoteHash := hex.EncodeToString(remoteHashRaw[:])

	localPath := filepath.Join(where.Providers(), filename)
	localBytes, err := filesystem.API().ReadFile(localPath)

	if err == nil {
		localHashRaw := sha256.Sum256(localBytes)
		localHash := hex.EncodeToString(localHashRaw[:])
		if localHash == remoteHash {
			// Hashes match, exit immediately.
			return false
		}
	}

	// Hashes differ or local file missing, perform update.
	tmpPath := localPath + ".tmp"
	if err := filesystem.API().WriteFile(tmpPath, bodyBytes, 0644); err != nil {
		log.Warnf("update failed to write tmp file for %s: %v", filename, err)
		return false
	}

	// Atomic swap prevents a half-written script being loaded.
	if err := filesystem.API().Rename(tmpPath, localPath); err != nil {
		_ = filesystem.API().Remove(tmpPath) // Cleanup on failure
		log.Warnf("update failed atomic swap for %s: %v", filename, err)
		return false
	}

	log.Infof("updated provider script: %s", filename)
	return true
}
