// Lua binding for the browser-impersonating HTTP client.
//
// Provider scripts often front playback endpoints with CDNs that reject
// standard Go HTTP clients. The http_tls module routes their requests through
// the network package's Chrome-fingerprinting transport.
//
// Lua API:
//
//	http_tls.get(url)              → returns body string
//	http_tls.get(url, headers_tbl) → returns body string with custom headers
//	http_tls.request(options_tbl)  → returns {status, body}
package custom

import (
	"io"
	"net/http"
	"strings"

	"github.com/vidra-player/vidra/internal/cache"
	"github.com/vidra-player/vidra/network"
	lua "github.com/yuin/gopher-lua"
)

// registerTLSClient injects the "http_tls" global module into the Lua state.
// This is called during provider loading in loader.go.
func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()

	// http_tls.get(url [, headers_table]) → body_string
	L.SetField(mod, "get", L.NewFunction(httpTLSGet))

	// http_tls.request({method, url, headers, body, cache}) → {status, body}
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))

	L.SetGlobal("http_tls", mod)
}

// httpTLSGet implements http_tls.get(url [, headers]) → body string
func httpTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	headersTable := L.OptTable(2, nil)

	headers := make(map[string]string)
	if headersTable != nil {
		headersTable.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}

	body, _, err := doTLSRequest(http.MethodGet, url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(body))
	return 1
}

type tlsCacheEntry struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// httpTLSRequest implements http_tls.request(options) → {status, body}
func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	method := getStringField(opts, "method", http.MethodGet)
	url := getStringField(opts, "url", "")
	reqBody := getStringField(opts, "body", "")

	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	shouldCache := false
	if cacheVal := opts.RawGetString("cache"); cacheVal != lua.LNil {
		shouldCache = lua.LVAsBool(cacheVal)
	}

	headers := make(map[string]string)
	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		tbl.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}

	cacheKey := cache.GenerateKey(method+url+reqBody, "http_tls")
	if shouldCache {
		var entry tlsCacheEntry
		if cache.Read(cacheKey, &entry) {
			pushResponse(L, entry.Status, entry.Body)
			return 1
		}
	}

	respBody, statusCode, err := doTLSRequest(method, url, headers, reqBody)
	if err != nil {
		L.RaiseError("http_tls.request failed: %s", err.Error())
		return 0
	}

	if shouldCache && statusCode == http.StatusOK {
		_ = cache.Write(cacheKey, tlsCacheEntry{Status: statusCode, Body: respBody})
	}

	pushResponse(L, statusCode, respBody)
	return 1
}

func pushResponse(L *lua.LState, status int, body string) {
	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(status))
	L.SetField(result, "body", lua.LString(body))
	L.Push(result)
}

// getStringField is a helper to get a string field from a Lua table with a default.
func getStringField(tbl *lua.LTable, key string, def string) string {
	val := tbl.RawGetString(key)
	if val == lua.LNil {
		return def
	}
	return val.String()
}

// doTLSRequest performs one fingerprinted request and drains the body.
func doTLSRequest(method, rawURL string, headers map[string]string, body string) (string, int, error) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, rawURL, reqBody)
	if err != nil {
		return "", 0, err
	}

	// Default headers to look like a real browser; scripts may override.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := network.DoImpersonated(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}

	return string(respBody), resp.StatusCode, nil
}
