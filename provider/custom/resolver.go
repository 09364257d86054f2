package custom

import (
	"fmt"
	"sync"

	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/internal/cache"
	"github.com/vidra-player/vidra/stream"
	lua "github.com/yuin/gopher-lua"
)

// Resolver executes a Lua provider's ResolveEndpoint function.
// Lua states are not reentrant, so calls are serialized per resolver.
type Resolver struct {
	name  string
	mu    sync.Mutex
	state *lua.LState
}

func newResolver(name string, state *lua.LState) *Resolver {
	return &Resolver{
		name:  name,
		state: state,
	}
}

// Name returns the provider name, the script basename.
func (r *Resolver) Name() string {
	return r.name
}

// ID returns the canonical provider identifier.
func (r *Resolver) ID() string {
	return IDfromName(r.name)
}

// ResolveEndpoint asks the script for the endpoint of a playback id.
// Endpoint descriptions are cached on disk per provider and playback id.
func (r *Resolver) ResolveEndpoint(playbackID string) (stream.Source, error) {
	cacheKey := cache.GenerateKey(playbackID, r.name+"_endpoint")
	var cached stream.Source
	if cache.Read(cacheKey, &cached) {
		return cached, nil
	}

	val, err := r.call(constant.ResolveEndpointFn, lua.LTTable, lua.LString(playbackID))
	if err != nil {
		return stream.Source{}, err
	}

	src, err := sourceFromTable(val.(*lua.LTable), playbackID)
	if err != nil {
		return stream.Source{}, fmt.Errorf("provider %s: %w", r.name, err)
	}

	_ = cache.Write(cacheKey, src)
	return src, nil
}

// Close releases the Lua state. The resolver must not be used afterwards.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Close()
}

// call executes a global Lua function safely.
func (r *Resolver) call(fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	luaFn := r.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	err := r.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)

	if err != nil {
		return nil, err
	}

	retval := r.state.Get(-1)
	r.state.Pop(1) // Clean stack

	if retval.Type() != retType {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, retval.Type(), retType)
	}

	return retval, nil
}
