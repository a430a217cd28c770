package jsonschema

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"
)

// Registry selects classes by the meta-schema a schema's $schema names.
// Classes can be added but not removed.
type Registry struct {
	mu        sync.RWMutex
	byID      map[string]*Class
	byVersion map[string]*Class
	latest    *Class
	logger    *slog.Logger
}

// NewRegistry returns a registry holding drafts 3, 4, 6 and 7, with draft 7
// as the fallback for schemas without a known $schema.
func NewRegistry() *Registry {
	r := NewEmptyRegistry(Draft7())
	for _, c := range builtinClasses() {
		_ = r.Register(c)
	}
	return r
}

// NewEmptyRegistry returns a registry with no classes that falls back to latest.
func NewEmptyRegistry(latest *Class) *Registry {
	return &Registry{
		byID:      make(map[string]*Class),
		byVersion: make(map[string]*Class),
		latest:    latest,
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger warnings about unknown meta-schemas go to.
func (r *Registry) SetLogger(l *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
}

// Register files c under its meta-schema id and its version name.
// Registering a different class under a taken id or version fails.
func (r *Registry) Register(c *Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := normalizeURI(c.ID())
	if prev, ok := r.byID[id]; ok && prev != c && id != "" {
		return fmt.Errorf("jsonschema: meta-schema %s is already registered", repr(c.ID()))
	}
	if prev, ok := r.byVersion[c.version]; ok && prev != c && c.version != "" {
		return fmt.Errorf("jsonschema: version %s is already registered", repr(c.version))
	}
	if id != "" {
		r.byID[id] = c
	}
	if c.version != "" {
		r.byVersion[c.version] = c
	}
	return nil
}

// Lookup returns the class registered for a meta-schema URI. A trailing
// empty fragment is ignored.
func (r *Registry) Lookup(metaSchemaURI string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[normalizeURI(metaSchemaURI)]
	return c, ok
}

// Version returns the class registered under a version name such as "draft4".
func (r *Registry) Version(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byVersion[name]
	return c, ok
}

// Latest returns the fallback class.
func (r *Registry) Latest() *Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// ValidatorFor returns the class schema's $schema selects. Schemas without
// $schema get the latest class; schemas naming an unknown meta-schema get it
// too, with a warning.
func (r *Registry) ValidatorFor(schema any) *Class {
	return r.ValidatorForOr(schema, r.Latest())
}

// ValidatorForOr is ValidatorFor with an explicit default for schemas that
// declare no $schema.
func (r *Registry) ValidatorForOr(schema any, def *Class) *Class {
	obj, ok := asObject(schema)
	if !ok {
		return def
	}
	raw, ok := obj["$schema"]
	if !ok {
		return def
	}
	uri, _ := raw.(string)
	if c, ok := r.Lookup(uri); ok {
		return c
	}
	latest := r.Latest()
	r.mu.RLock()
	logger := r.logger
	r.mu.RUnlock()
	logger.Warn("meta-schema named by $schema was not found, using the latest draft",
		"schema", repr(raw),
		"draft", latest.Version(),
	)
	return latest
}

func (r *Registry) classes() map[string]*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.byID)
}

// defaultRegistry backs Validate when no registry is given. It is never
// written to after construction.
var defaultRegistry = sync.OnceValue(NewRegistry)

// ValidateOption configures Validate.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	class         *Class
	registry      *Registry
	validatorOpts []ValidatorOption
}

// UsingClass validates with c instead of selecting a class by $schema.
func UsingClass(c *Class) ValidateOption {
	return func(cfg *validateConfig) { cfg.class = c }
}

// UsingRegistry selects the class from reg.
func UsingRegistry(reg *Registry) ValidateOption {
	return func(cfg *validateConfig) { cfg.registry = reg }
}

// UsingValidatorOptions passes options on to Class.New.
func UsingValidatorOptions(opts ...ValidatorOption) ValidateOption {
	return func(cfg *validateConfig) { cfg.validatorOpts = append(cfg.validatorOpts, opts...) }
}

// Validate checks schema against its meta-schema and then instance against
// schema. A schema problem is returned as a *SchemaError before any instance
// error; an invalid instance yields the most relevant *ValidationError as
// chosen by BestMatch.
func Validate(instance, schema any, opts ...ValidateOption) error {
	var cfg validateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	class := cfg.class
	if class == nil {
		reg := cfg.registry
		if reg == nil {
			reg = defaultRegistry()
		}
		class = reg.ValidatorFor(schema)
	}

	if err := class.CheckSchema(schema); err != nil {
		return err
	}
	errs, err := collect(class.New(schema, cfg.validatorOpts...).IterErrors(instance))
	if err != nil {
		return err
	}
	if best := BestMatch(errs); best != nil {
		return best
	}
	return nil
}
