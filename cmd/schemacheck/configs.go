package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/internal/config"
	"github.com/usestring/schemacheck/internal/logging"
)

type MainConfig struct {
	Draft       string `cli:"name=draft aliases=d desc='force a draft: draft3, draft4, draft6 or draft7'"`
	FormatCheck bool   `cli:"name=format-check aliases=F desc='enforce the format keyword'"`
	Color       bool   `cli:"name=color desc='color output (default: when writing to a terminal)'"`
	Workers     int    `cli:"name=workers desc='instances validated at once'"`
	LogLevel    string `cli:"name=log-level desc='log level: debug, info, warn, error'"`

	Main *cli.Command

	env      *config.Config
	checker  *checker.Checker
	closeLog func() error
}

// setup loads the environment configuration, applies the global options on
// top of it and builds the checker shared by the subcommands.
func (cfg *MainConfig) setup() error {
	cfg.env = config.Load()
	if cfg.Workers > 0 {
		cfg.env.Workers = cfg.Workers
	}
	if cfg.optSet("format-check") {
		cfg.env.FormatCheck = cfg.FormatCheck
	}

	logCfg := logging.FromConfig(cfg.env)
	if cfg.LogLevel != "" {
		logCfg.Level = cfg.LogLevel
	}
	closeLog, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	cfg.closeLog = closeLog

	chk, err := checker.New(cfg.env, slog.Default())
	if err != nil {
		return err
	}
	if cfg.Draft != "" {
		if _, err := chk.Version(cfg.Draft); err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	cfg.checker = chk
	return nil
}

// formatCheck is the -format-check value when given on the command line.
func (cfg *MainConfig) formatCheck() *bool {
	if !cfg.optSet("format-check") {
		return nil
	}
	on := cfg.FormatCheck
	return &on
}

// colors reports whether output to w is colored: -color decides when given,
// otherwise only terminals get color.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.optSet("color") {
		return cfg.Color
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) optSet(name string) bool {
	if cfg.Main == nil {
		return false
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == name {
			return opt.Value != nil
		}
	}
	return false
}

type ValidateConfig struct {
	*MainConfig

	Instances   []string
	ErrorFormat string `cli:"name=error-format desc='Go template for each error, with fields .Label .Path .SchemaPath .Error'"`
	Query       string `cli:"name=query aliases=q desc='jq expression selecting the values to validate'"`
	MaxErrors   int    `cli:"name=max-errors desc='errors reported per instance, 0 for all'"`
	Best        bool   `cli:"name=best desc='report only the most relevant error of each instance'"`
	Quiet       bool   `cli:"name=quiet desc='print nothing, only set the exit status'"`

	Validate *cli.Command
}

func (cfg *ValidateConfig) instanceOpt(_ *cli.Context, a string) (any, error) {
	cfg.Instances = append(cfg.Instances, a)
	return a, nil
}

type CheckSchemaConfig struct {
	*MainConfig

	CheckSchema *cli.Command
}

type InferConfig struct {
	*MainConfig

	NoRequired bool `cli:"name=no-required desc='mark no property as required'"`
	Closed     bool `cli:"name=closed desc='forbid properties not seen in the samples'"`

	Infer *cli.Command
}

type DraftsConfig struct {
	*MainConfig

	Drafts *cli.Command
}
