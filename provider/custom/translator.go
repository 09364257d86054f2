package custom

import (
	"fmt"

	"github.com/vidra-player/vidra/stream"
	lua "github.com/yuin/gopher-lua"
)

// Helper to get string from table with default
func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

// sourceFromTable converts a Lua endpoint description into a playback source.
// The table must carry base_url; token, type and constraints are optional.
func sourceFromTable(table *lua.LTable, playbackID string) (stream.Source, error) {
	baseURL := getString(table, "base_url")
	if baseURL == "" {
		return stream.Source{}, fmt.Errorf("endpoint must have base_url")
	}

	streamType := stream.OnDemand
	if raw := getString(table, "type"); raw != "" {
		parsed, err := stream.ParseType(raw)
		if err != nil {
			return stream.Source{}, err
		}
		streamType = parsed
	}

	src := stream.Source{
		PlaybackID: playbackID,
		Token:      getString(table, "token"),
		Type:       streamType,
		BaseURL:    baseURL,
	}

	if constraints := table.RawGetString("constraints"); constraints.Type() == lua.LTTable {
		tbl := constraints.(*lua.LTable)
		src.Constraints = stream.Constraints{
			MinResolution:  getString(tbl, "min_resolution"),
			MaxResolution:  getString(tbl, "max_resolution"),
			Resolution:     getString(tbl, "resolution"),
			RenditionOrder: stream.RenditionOrder(getString(tbl, "rendition_order")),
		}
	}

	return src, nil
}
