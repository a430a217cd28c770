package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "schemacheck").
		WithSynopsis("schemacheck [opts] command [opts]").
		WithDescription("schemacheck validates JSON and YAML documents against JSON Schema drafts 3, 4, 6 and 7.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return schemacheckMain(cfg, cc, args)
		}).
		WithSubs(
			ValidateCommand(cfg),
			CheckSchemaCommand(cfg),
			InferCommand(cfg),
			DraftsCommand(cfg))
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ValidateConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "i",
		Aliases:     []string{"instance"},
		Description: "instance document to validate, - for stdin (repeatable)",
		Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.instanceOpt), "(file)"),
	})
	return cli.NewCommandAt(&cfg.Validate, "validate").
		WithAliases("v").
		WithSynopsis("validate [-i instance]... [opts] schema").
		WithDescription(validateDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return validate(cfg, cc, args)
		})
}

const validateDescription = `validate checks instance documents against a schema.

The draft is chosen by the schema's $schema, falling back to
SCHEMACHECK_DEFAULT_DRAFT; -draft overrides both. Relative references
are resolved against the schema file. Without -i the instance is read
from stdin.

Each error is printed with -error-format, a Go template executed with
.Label (the instance), .Path and .SchemaPath (JSON Pointers) and .Error
(the validation error, with .Message, .Validator, .Instance ...). The
functions red, green, yellow, blue, cyan and bold color their argument
when color is on. The exit status is 1 when an instance is invalid.`

func CheckSchemaCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckSchemaConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.CheckSchema, "check-schema").
		WithAliases("c").
		WithSynopsis("check-schema schema...").
		WithDescription("check schemas against the meta-schema of their draft, reporting every violation").
		WithRun(func(cc *cli.Context, args []string) error {
			return checkSchema(cfg, cc, args)
		})
}

func InferCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InferConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Infer, "infer").
		WithSynopsis("infer [opts] [samples]").
		WithDescription("infer a draft-07 schema accepting every sample document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return infer(cfg, cc, args)
		})
}

func DraftsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DraftsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Drafts, "drafts").
		WithSynopsis("drafts").
		WithDescription("list the supported drafts with their meta-schema ids and formats").
		WithRun(func(cc *cli.Context, args []string) error {
			return drafts(cfg, cc, args)
		})
}
