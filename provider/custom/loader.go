// Package custom bridges the Go core and Lua endpoint provider scripts.
//
// A provider script defines a global ResolveEndpoint(playback_id) function
// returning the endpoint description for that asset. Scripts run in their own
// Lua state with the standard provider libraries and the fingerprinting HTTP
// client preloaded.
package custom

import (
	"fmt"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/internal/script"
	"github.com/vidra-player/vidra/util"
	lua "github.com/yuin/gopher-lua"
)

// IDfromName generates the canonical provider identifier for a Lua script basename.
func IDfromName(name string) string {
	return name + " custom"
}

// LoadResolver executes and validates a Lua provider script, returning a
// Resolver backed by its ResolveEndpoint function.
func LoadResolver(path string) (*Resolver, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state) // Injected from wrapper_tls.go

	// Load and compile the Lua script (using the bytecode cache if available).
	if err := script.PreCompileAndLoad(state, path); err != nil {
		return nil, err
	}

	name := util.FileStem(path)

	if state.GetGlobal(constant.ResolveEndpointFn).Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.ResolveEndpointFn, name)
	}

	return newResolver(name, state), nil
}
