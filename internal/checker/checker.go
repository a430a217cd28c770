// Package checker runs schema validations for the command-line and MCP
// front ends.
//
// A Checker owns the state worth sharing across validations: the class
// registry, the remote document cache, the URI join cache and the HTTP
// client. Each validation gets its own Validator and Resolver.
package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/schemacheck/internal/cache"
	"github.com/usestring/schemacheck/internal/config"
	"github.com/usestring/schemacheck/pkg/jsonschema"
)

// ErrUnknownDraft is returned for a draft name no class is registered under.
var ErrUnknownDraft = errors.New("unknown draft")

// Checker validates documents with shared caches.
type Checker struct {
	cfg      *config.Config
	registry *jsonschema.Registry
	remote   *jsonschema.SharedRemoteCache
	joins    *cache.Memo[jsonschema.JoinKey, string]
	client   *http.Client
	logger   *slog.Logger
}

// New creates a Checker from configuration. A nil logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) (*Checker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	remote, err := jsonschema.NewSharedRemoteCache(cfg.RemoteCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating remote cache: %w", err)
	}
	joins, err := cache.NewMemo[jsonschema.JoinKey, string](cfg.JoinCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating join cache: %w", err)
	}
	registry := jsonschema.NewRegistry()
	registry.SetLogger(logger)

	return &Checker{
		cfg:      cfg,
		registry: registry,
		remote:   remote,
		joins:    joins,
		client:   &http.Client{Timeout: cfg.HTTPTimeout},
		logger:   logger,
	}, nil
}

// Config returns the configuration the checker was built from.
func (c *Checker) Config() *config.Config { return c.cfg }

// Registry returns the class registry.
func (c *Checker) Registry() *jsonschema.Registry { return c.registry }

// RemoteCache returns the cache of fetched documents.
func (c *Checker) RemoteCache() *jsonschema.SharedRemoteCache { return c.remote }

// Class picks the class for schema. A non-empty draft, such as "draft4" or
// "4", overrides the schema's $schema; otherwise $schema decides and schemas
// without one get the configured default draft.
func (c *Checker) Class(schema any, draft string) (*jsonschema.Class, error) {
	if draft != "" {
		return c.Version(draft)
	}
	def, err := c.Version(c.cfg.DefaultDraft)
	if err != nil {
		return nil, err
	}
	return c.registry.ValidatorForOr(schema, def), nil
}

// Version returns the class registered under a draft name.
func (c *Checker) Version(name string) (*jsonschema.Class, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(n, "draft") {
		n = "draft" + strings.TrimPrefix(n, "-")
	}
	class, ok := c.registry.Version(n)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDraft, name)
	}
	return class, nil
}

// Options tunes one validation run.
type Options struct {
	// Draft overrides class selection by $schema.
	Draft string
	// BaseURI is where the schema was loaded from. It is the base of
	// relative references when the schema declares no id.
	BaseURI string
	// FormatCheck enables the format keyword. Nil uses the configuration.
	FormatCheck *bool
	// MaxErrors bounds the errors kept per instance. Zero keeps all.
	MaxErrors int
	// Handlers replace the built-in fetching for their URI schemes.
	Handlers map[string]jsonschema.Handler
}

// Instance is one document to validate.
type Instance struct {
	Label string
	Value any
}

// Report is the outcome of validating one instance.
type Report struct {
	Label  string
	Errors []*jsonschema.ValidationError
	// Best is the most relevant error, or nil for a valid instance.
	Best *jsonschema.ValidationError
	// Truncated is set when MaxErrors cut the error list short.
	Truncated bool
}

// Valid reports whether the instance had no errors.
func (r *Report) Valid() bool { return len(r.Errors) == 0 }

// Run is the result of validating instances against one schema.
type Run struct {
	Class   *jsonschema.Class
	Reports []*Report
}

// Failed counts the invalid instances.
func (r *Run) Failed() int {
	n := 0
	for _, rep := range r.Reports {
		if !rep.Valid() {
			n++
		}
	}
	return n
}

// Validate checks schema against its meta-schema, then validates every
// instance, running at most Config.Workers validations at once. Reports are
// in the order of instances. A schema that fails its meta-schema is returned
// as a *jsonschema.SchemaError; a reference that cannot be resolved stops the
// run with a *jsonschema.RefResolutionError.
func (c *Checker) Validate(ctx context.Context, schema any, instances []Instance, opts Options) (*Run, error) {
	class, err := c.Class(schema, opts.Draft)
	if err != nil {
		return nil, err
	}
	if err := class.CheckSchema(schema); err != nil {
		return nil, err
	}

	reports := make([]*Report, len(instances))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.cfg.Workers, 1))
	for i, inst := range instances {
		g.Go(func() error {
			rep, err := c.validateOne(gctx, class, schema, inst, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", inst.Label, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("validated instances",
		"draft", class.Version(),
		"instances", len(instances),
	)
	return &Run{Class: class, Reports: reports}, nil
}

func (c *Checker) validateOne(ctx context.Context, class *jsonschema.Class, schema any, inst Instance, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := c.NewValidator(ctx, class, schema, opts)
	rep := &Report{Label: inst.Label}
	for verr, err := range v.IterErrors(inst.Value) {
		if err != nil {
			return nil, err
		}
		if opts.MaxErrors > 0 && len(rep.Errors) == opts.MaxErrors {
			rep.Truncated = true
			break
		}
		rep.Errors = append(rep.Errors, verr)
	}
	rep.Best = jsonschema.BestMatch(rep.Errors)
	return rep, nil
}

// NewValidator binds class to schema with a resolver wired to the shared
// caches. The validator must be used by one goroutine only.
func (c *Checker) NewValidator(ctx context.Context, class *jsonschema.Class, schema any, opts Options) *jsonschema.Validator {
	base := class.IDOf(schema)
	if base == "" {
		base = opts.BaseURI
	}
	resolver := jsonschema.NewResolver(base, schema,
		jsonschema.WithContext(ctx),
		jsonschema.WithHTTPClient(c.client),
		jsonschema.WithCacheRemote(c.cfg.CacheRemote),
		jsonschema.WithSharedRemoteCache(c.remote),
		jsonschema.WithJoinCache(c.joins),
		jsonschema.WithRegistry(c.registry),
		jsonschema.WithLogger(c.logger),
		jsonschema.WithHandlers(opts.Handlers),
	)
	vopts := []jsonschema.ValidatorOption{jsonschema.WithResolver(resolver)}
	check := c.cfg.FormatCheck
	if opts.FormatCheck != nil {
		check = *opts.FormatCheck
	}
	if check {
		vopts = append(vopts, jsonschema.WithFormatChecker(FormatCheckerFor(class)))
	}
	return class.New(schema, vopts...)
}

// SchemaErrors returns every way schema fails the meta-schema of its class.
func (c *Checker) SchemaErrors(schema any, draft string) (*jsonschema.Class, []*jsonschema.ValidationError, error) {
	class, err := c.Class(schema, draft)
	if err != nil {
		return nil, nil, err
	}
	meta := class.New(class.MetaSchema())
	var errs []*jsonschema.ValidationError
	for verr, err := range meta.IterErrors(schema) {
		if err != nil {
			return class, nil, err
		}
		errs = append(errs, verr)
	}
	return class, errs, nil
}

// FormatCheckerFor returns the format checker of the draft class belongs to.
// Classes of other versions get a checker for every registered format.
func FormatCheckerFor(class *jsonschema.Class) *jsonschema.FormatChecker {
	switch class.Version() {
	case "draft3":
		return jsonschema.Draft3FormatChecker()
	case "draft4":
		return jsonschema.Draft4FormatChecker()
	case "draft6":
		return jsonschema.Draft6FormatChecker()
	case "draft7":
		return jsonschema.Draft7FormatChecker()
	}
	return jsonschema.NewFormatChecker()
}

// FileURI returns the file URI of a local path, for use as a base URI.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
