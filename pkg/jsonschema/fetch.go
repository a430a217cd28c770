package jsonschema

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/usestring/schemacheck/internal/cache"
	"github.com/usestring/schemacheck/internal/document"
)

// maxRemoteBytes bounds the size of a fetched document.
const maxRemoteBytes = 32 << 20

func (r *Resolver) fetch(uri string) (any, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	if h, ok := r.handlers[u.Scheme]; ok {
		return h(r.ctx, uri)
	}
	switch u.Scheme {
	case "http", "https":
		return r.fetchHTTP(uri)
	case "file":
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, err
		}
		return document.Decode(data, document.Detect("", u.Path))
	case "":
		return nil, fmt.Errorf("unknown url type: %s", repr(uri))
	}
	return nil, fmt.Errorf("no handler for URI scheme %s", repr(u.Scheme))
}

func (r *Resolver) fetchHTTP(uri string) (any, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/schema+json, application/json, application/yaml;q=0.9, */*;q=0.1")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	r.logger.Debug("fetched remote schema",
		"url", uri,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", uri, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", uri, err)
	}
	return document.Decode(data, document.Detect(resp.Header.Get("Content-Type"), uri))
}

// SharedRemoteCache holds fetched documents for any number of resolvers.
// Concurrent fetches of the same URI are collapsed into one.
type SharedRemoteCache struct {
	group singleflight.Group
	docs  *cache.Memo[string, any]
}

// NewSharedRemoteCache creates a cache of at most size documents.
func NewSharedRemoteCache(size int) (*SharedRemoteCache, error) {
	docs, err := cache.NewMemo[string, any](size)
	if err != nil {
		return nil, err
	}
	return &SharedRemoteCache{docs: docs}, nil
}

// Len is the number of cached documents.
func (c *SharedRemoteCache) Len() int {
	return c.docs.Len()
}

func (c *SharedRemoteCache) load(uri string, fetch func() (any, error)) (any, error) {
	uri = normalizeURI(uri)
	if doc, ok := c.docs.Get(uri); ok {
		return doc, nil
	}
	doc, err, _ := c.group.Do(uri, func() (any, error) {
		if doc, ok := c.docs.Get(uri); ok {
			return doc, nil
		}
		doc, err := fetch()
		if err != nil {
			return nil, err
		}
		c.docs.Put(uri, doc)
		return doc, nil
	})
	return doc, err
}
