// Package storyboard provides a client for playback-endpoint storyboard
// metadata, the thumbnail sprite descriptions used for seek previews.
package storyboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/stream"
)

// Tile is one thumbnail within the sprite sheet.
type Tile struct {
	Start float64 `json:"start"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
}

// Storyboard describes the sprite sheet for one asset.
type Storyboard struct {
	URL        string `json:"url"`
	TileWidth  int    `json:"tile_width"`
	TileHeight int    `json:"tile_height"`
	Tiles      []Tile `json:"tiles"`
}

// Mark is one coarse seek marker derived from the storyboard tiles.
type Mark struct {
	Title string  `json:"title"`
	Time  float64 `json:"time"`
}

// Marks thins the tile timestamps into at most max evenly spaced seek
// markers, suitable for a player timeline.
func (b *Storyboard) Marks(max int) []Mark {
	if b == nil || max <= 0 || len(b.Tiles) == 0 {
		return nil
	}

	stride := 1
	if len(b.Tiles) > max {
		stride = (len(b.Tiles) + max - 1) / max
	}

	var marks []Mark
	for i := 0; i < len(b.Tiles); i += stride {
		start := b.Tiles[i].Start
		marks = append(marks, Mark{Title: formatTimestamp(start), Time: start})
	}
	return marks
}

// formatTimestamp renders seconds as mm:ss, or h:mm:ss past the first hour.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// URL builds the storyboard metadata URL for a source.
func URL(src stream.Source) string {
	return fmt.Sprintf("%s/%s/storyboard.json", strings.TrimSuffix(src.BaseURL, "/"), src.PlaybackID)
}

// Fetch retrieves the storyboard for a source.
// Returns nil (not an error) when the endpoint has none — storyboards are an
// enhancement, never a playback requirement.
func Fetch(ctx context.Context, client *http.Client, src stream.Source) (*Storyboard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, URL(src), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		log.Warnf("storyboard request failed: %v", err)
		return nil, nil // Graceful degradation
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("storyboard endpoint returned status %d", resp.StatusCode)
		// Recover gracefully: seek previews simply stay unavailable.
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read storyboard response: %w", err)
	}

	var board Storyboard
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, fmt.Errorf("parse storyboard response: %w", err)
	}

	if board.URL == "" {
		return nil, nil
	}

	return &board, nil
}
