// Package resolve turns playback sources into validated stream URLs.
//
// Resolution builds the manifest URL for a playback id, validates it against
// the endpoint with a lightweight fetch, and classifies every non-success
// response into the typed taxonomy of errors.go. When a signing token is
// present the signed variant is attempted first; any non-success
// classification falls back to the unsigned variant.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/stream"
)

// outcome is one cached validation verdict for an exact URL string.
type outcome struct {
	err *Error // nil on success
}

// Resolver validates playback sources against their endpoint.
// A Resolver caches verdicts per exact URL for its own lifetime, so repeated
// resolutions of the same source within one player instance skip the fetch.
type Resolver struct {
	client *http.Client

	mu       sync.Mutex
	verdicts map[string]outcome
}

// New creates a resolver issuing validation fetches through the given client.
func New(client *http.Client) *Resolver {
	return &Resolver{
		client:   client,
		verdicts: make(map[string]outcome),
	}
}

// Resolve validates the source and returns a playable URL.
// Classified endpoint rejections come back as *Error values; the signed
// variant is tried first when a token is present, falling back to the
// unsigned variant on any non-success classification.
func (r *Resolver) Resolve(ctx context.Context, src stream.Source) (stream.ResolvedURL, error) {
	unsigned := BuildURL(src, false)

	if src.Signed() {
		signed := BuildURL(src, true)
		err := r.validate(ctx, signed)
		if err == nil {
			return stream.ResolvedURL{URL: signed, Signed: true}, nil
		}
		log.Debugf("signed URL rejected (%v), falling back to unsigned", err)
	}

	if err := r.validate(ctx, unsigned); err != nil {
		return stream.ResolvedURL{}, err
	}

	return stream.ResolvedURL{URL: unsigned, Signed: false}, nil
}

// BuildURL constructs the manifest URL for a source, with or without the
// signing token, appending the query constraints in both cases.
func BuildURL(src stream.Source, signed bool) string {
	base := strings.TrimSuffix(src.BaseURL, "/")
	u := fmt.Sprintf("%s/%s.m3u8", base, src.PlaybackID)

	q := url.Values{}
	if signed && src.Token != "" {
		q.Set("token", src.Token)
	}
	c := src.Constraints
	if c.MinResolution != "" {
		q.Set("minResolution", c.MinResolution)
	}
	if c.MaxResolution != "" {
		q.Set("maxResolution", c.MaxResolution)
	}
	if c.Resolution != "" {
		q.Set("resolution", c.Resolution)
	}
	if c.RenditionOrder != "" {
		q.Set("renditionOrder", string(c.RenditionOrder))
	}

	if encoded := q.Encode(); encoded != "" {
		return u + "?" + encoded
	}
	return u
}

// validate fetches the URL and classifies the response.
// Verdicts for classified HTTP outcomes are cached per exact URL string;
// transport failures are not cached, so a recovered network retries.
func (r *Resolver) validate(ctx context.Context, rawURL string) *Error {
	r.mu.Lock()
	if v, ok := r.verdicts[rawURL]; ok {
		r.mu.Unlock()
		return v.err
	}
	r.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &Error{Category: CategoryGeneric, Message: msgGeneric}
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		// Transport failure: no HTTP response to classify.
		return &Error{Category: CategoryNetwork, Message: msgNetwork}
	}
	defer resp.Body.Close()

	verdict := classify(resp)

	r.mu.Lock()
	r.verdicts[rawURL] = outcome{err: verdict}
	r.mu.Unlock()

	return verdict
}

// errorPayload is the structured error body playback endpoints return.
type errorPayload struct {
	Success bool `json:"success"`
	Error   struct {
		Message string       `json:"message"`
		Fields  []FieldError `json:"fields"`
	} `json:"error"`
}

// classify inspects one validation response.
// A manifest content type with HTTP 200 is a success; JSON bodies are parsed
// for the structured error shape; everything else classifies by status code.
func classify(resp *http.Response) *Error {
	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	switch contentType {
	case constant.MimeHLS, constant.MimeText:
		if resp.StatusCode == http.StatusOK {
			return nil
		}
		return classifyStatus(resp.StatusCode, "", nil)

	case constant.MimeJSON:
		var payload errorPayload
		body, err := io.ReadAll(resp.Body)
		if err == nil {
			err = json.Unmarshal(body, &payload)
		}
		if err != nil {
			return classifyStatus(resp.StatusCode, "", nil)
		}

		// An explicit success verdict validates the URL even without a manifest body.
		if payload.Success {
			return nil
		}

		return classifyStatus(resp.StatusCode, payload.Error.Message, payload.Error.Fields)

	default:
		if resp.StatusCode == http.StatusOK {
			// 200 with an unexpected content type still plays in practice.
			return nil
		}
		return classifyStatus(resp.StatusCode, "", nil)
	}
}
