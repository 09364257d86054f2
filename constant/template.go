// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Endpoint Provider Function Identifiers - these constants define the required global function signatures for Lua provider modules.
const (
	ResolveEndpointFn = "ResolveEndpoint"
)

// ProviderTemplate is a Go text/template for scaffolding new Lua endpoint provider files.
const ProviderTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias endpoint { base_url: string, token: string|nil, headers: table<string,string>|nil }


----- IMPORTS -----
--- END IMPORTS ---



----- VARIABLES -----
--- END VARIABLES ---



----- MAIN -----

--- Resolves the playback endpoint for a given playback id.
-- @param playback_id string Playback id to resolve
-- @return endpoint Playback endpoint description
function {{ .ResolveEndpointFn }}(playback_id)
	return { base_url = "" }
end


--- END MAIN ---




----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`
