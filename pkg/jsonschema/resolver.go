package jsonschema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/usestring/schemacheck/internal/cache"
)

// Handler fetches the document at uri for a URI scheme.
type Handler func(ctx context.Context, uri string) (any, error)

// JoinKey is the key of the URI join cache.
type JoinKey struct {
	Base, Ref string
}

// urljoinCache is shared by every resolver that is not given its own.
var urljoinCache = cache.MustMemo[JoinKey, string](cache.DefaultSize)

// Resolver resolves JSON references against a stack of base URIs.
//
// A Resolver is not safe for concurrent use: its scope stack follows a single
// traversal. Use one Resolver per validation.
type Resolver struct {
	scopes      []string
	store       map[string]any
	handlers    map[string]Handler
	cacheRemote bool

	ctx    context.Context
	client *http.Client
	shared *SharedRemoteCache
	logger *slog.Logger

	joins  *cache.Memo[JoinKey, string]
	remote *cache.Memo[string, any]
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithStore adds documents to the store, keyed by URI.
func WithStore(store map[string]any) ResolverOption {
	return func(r *Resolver) {
		for uri, doc := range store {
			r.store[normalizeURI(uri)] = doc
		}
	}
}

// WithHandlers sets the fetchers used for the given URI schemes, in place of
// the built-in HTTP and file fetching.
func WithHandlers(handlers map[string]Handler) ResolverOption {
	return func(r *Resolver) {
		for scheme, h := range handlers {
			r.handlers[scheme] = h
		}
	}
}

// WithCacheRemote controls whether fetched documents are added to the store.
func WithCacheRemote(enabled bool) ResolverOption {
	return func(r *Resolver) { r.cacheRemote = enabled }
}

// WithHTTPClient sets the client used for http and https references.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) { r.client = c }
}

// WithContext sets the context passed to handlers and HTTP requests.
func WithContext(ctx context.Context) ResolverOption {
	return func(r *Resolver) { r.ctx = ctx }
}

// WithRemoteCache sets the cache of resolved URLs.
func WithRemoteCache(m *cache.Memo[string, any]) ResolverOption {
	return func(r *Resolver) { r.remote = m }
}

// WithJoinCache sets the cache of joined URIs.
func WithJoinCache(m *cache.Memo[JoinKey, string]) ResolverOption {
	return func(r *Resolver) { r.joins = m }
}

// WithSharedRemoteCache shares fetched documents with other resolvers.
func WithSharedRemoteCache(c *SharedRemoteCache) ResolverOption {
	return func(r *Resolver) { r.shared = c }
}

// WithRegistry seeds the store with the meta-schemas of reg's classes
// instead of the built-in drafts.
func WithRegistry(reg *Registry) ResolverOption {
	return func(r *Resolver) {
		for id, class := range reg.classes() {
			r.store[normalizeURI(id)] = class.MetaSchema()
		}
	}
}

// WithLogger sets the logger used for fetch traces.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver whose base scope is baseURI and whose store
// maps baseURI to referrer, the document references are relative to.
func NewResolver(baseURI string, referrer any, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		scopes:      []string{baseURI},
		store:       make(map[string]any),
		handlers:    make(map[string]Handler),
		cacheRemote: true,
		ctx:         context.Background(),
		joins:       urljoinCache,
		logger:      slog.Default(),
	}
	for _, class := range builtinClasses() {
		r.store[normalizeURI(class.ID())] = class.MetaSchema()
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: 10 * time.Second}
	}
	if r.remote == nil {
		r.remote = cache.MustMemo[string, any](cache.DefaultSize)
	}
	r.store[normalizeURI(baseURI)] = referrer
	return r
}

// NewResolverFromSchema creates a resolver rooted at the id of schema.
func NewResolverFromSchema(schema any, idOf IDFunc, opts ...ResolverOption) *Resolver {
	return NewResolver(idOf(schema), schema, opts...)
}

// ResolutionScope is the URI references are currently resolved against.
func (r *Resolver) ResolutionScope() string {
	return r.scopes[len(r.scopes)-1]
}

// BaseURI is the resolution scope without its fragment.
func (r *Resolver) BaseURI() string {
	u, _ := defrag(r.ResolutionScope())
	return u
}

// PushScope enters scope, joined against the current scope.
func (r *Resolver) PushScope(scope string) {
	r.scopes = append(r.scopes, r.join(r.ResolutionScope(), scope))
}

// PopScope leaves the most recently pushed scope. The base scope cannot be
// popped.
func (r *Resolver) PopScope() error {
	if len(r.scopes) <= 1 {
		return &RefResolutionError{Err: errors.New(
			"failed to pop the scope from an empty stack: PopScope must be called once for every PushScope")}
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
	return nil
}

// InScope runs fn with scope pushed.
func (r *Resolver) InScope(scope string, fn func() error) (err error) {
	r.PushScope(scope)
	defer func() {
		if perr := r.PopScope(); err == nil {
			err = perr
		}
	}()
	return fn()
}

// Resolving resolves ref and runs fn on the referenced document with the
// document's URL pushed as the scope. The scope is popped however fn returns.
func (r *Resolver) Resolving(ref string, fn func(doc any) error) (err error) {
	u, doc, err := r.Resolve(ref)
	if err != nil {
		return err
	}
	return r.InScope(u, func() error { return fn(doc) })
}

// Resolve joins ref against the current scope and returns the resulting URL
// with the document it refers to.
func (r *Resolver) Resolve(ref string) (string, any, error) {
	u := r.join(r.ResolutionScope(), ref)
	doc, err := r.remote.Do(u, func() (any, error) { return r.ResolveFromURL(u) })
	if err != nil {
		return u, nil, err
	}
	return u, doc, nil
}

// ResolveFromURL returns the document, or the part of it selected by the
// fragment, that u refers to.
func (r *Resolver) ResolveFromURL(u string) (any, error) {
	base, fragment := defrag(u)
	doc, ok := r.store[normalizeURI(base)]
	if !ok {
		var err error
		doc, err = r.ResolveRemote(base)
		if err != nil {
			var rre *RefResolutionError
			if errors.As(err, &rre) {
				return nil, err
			}
			return nil, &RefResolutionError{Ref: u, Err: err}
		}
	}
	return r.ResolveFragment(doc, fragment)
}

// ResolveFragment walks fragment as a JSON Pointer through doc.
func (r *Resolver) ResolveFragment(doc any, fragment string) (any, error) {
	fragment = strings.TrimLeft(fragment, "/")
	if fragment == "" {
		return doc, nil
	}
	unescaped, err := url.PathUnescape(fragment)
	if err != nil {
		return nil, &RefResolutionError{Err: fmt.Errorf("unresolvable JSON pointer %s: %w", repr(fragment), err)}
	}
	for _, part := range strings.Split(unescaped, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")

		next, ok := lookup(doc, part)
		if !ok {
			return nil, &RefResolutionError{Err: fmt.Errorf("unresolvable JSON pointer: %s", repr(fragment))}
		}
		doc = next
	}
	return doc, nil
}

func lookup(doc any, part string) (any, bool) {
	if arr, ok := asArray(doc); ok {
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 || i >= len(arr) {
			return nil, false
		}
		return arr[i], true
	}
	if obj, ok := asObject(doc); ok {
		v, ok := obj[part]
		return v, ok
	}
	return nil, false
}

// ResolveRemote fetches the document at uri: through the handler registered
// for its scheme if there is one, over HTTP for http and https, and from disk
// for file URIs. Fetched documents are added to the store when remote caching
// is enabled.
func (r *Resolver) ResolveRemote(uri string) (any, error) {
	load := func() (any, error) { return r.fetch(uri) }
	var (
		doc any
		err error
	)
	if r.shared != nil {
		doc, err = r.shared.load(uri, load)
	} else {
		doc, err = load()
	}
	if err != nil {
		return nil, err
	}
	if r.cacheRemote {
		r.store[normalizeURI(uri)] = doc
	}
	return doc, nil
}

func (r *Resolver) join(base, ref string) string {
	u, _ := r.joins.Do(JoinKey{Base: base, Ref: ref}, func() (string, error) {
		return urljoin(base, ref), nil
	})
	return u
}

// urljoin resolves ref against base. Bases without a scheme, such as bare
// file paths, are joined textually.
func urljoin(base, ref string) string {
	if base == "" {
		return ref
	}
	if ref == "" {
		return base
	}
	if strings.HasPrefix(ref, "#") {
		stripped, _ := defrag(base)
		return normalizeURI(stripped + ref)
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if ru.Scheme != "" {
		return ref
	}
	bu, err := url.Parse(base)
	if err != nil || bu.Scheme == "" {
		return joinRelative(base, ref)
	}
	return bu.ResolveReference(ru).String()
}

func joinRelative(base, ref string) string {
	stripped, _ := defrag(base)
	if strings.HasPrefix(ref, "/") {
		return ref
	}
	if i := strings.IndexByte(stripped, '?'); i >= 0 {
		stripped = stripped[:i]
	}
	if i := strings.LastIndexByte(stripped, '/'); i >= 0 {
		return stripped[:i+1] + ref
	}
	return ref
}

// defrag splits u into the URI without its fragment and the fragment.
func defrag(u string) (string, string) {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i], u[i+1:]
	}
	return u, ""
}

// normalizeURI makes "x#" and "x" the same store key.
func normalizeURI(u string) string {
	return strings.TrimSuffix(u, "#")
}
