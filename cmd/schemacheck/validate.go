package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"text/template"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/internal/query"
	"github.com/usestring/schemacheck/pkg/jsonschema"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: validate requires exactly one schema", cli.ErrUsage)
	}
	instances := cfg.Instances
	if len(instances) == 0 {
		instances = []string{"-"}
	}
	if args[0] == "-" && slices.Contains(instances, "-") {
		return fmt.Errorf("%w: schema and instance cannot both be read from stdin", cli.ErrUsage)
	}

	p := palette{on: cfg.colors(cc.Out)}
	tmpl, err := parseErrorFormat(cfg.ErrorFormat, p)
	if err != nil {
		return fmt.Errorf("%w: error-format: %w", cli.ErrUsage, err)
	}
	job := &validateJob{
		schema:    args[0],
		instances: instances,
		query:     cfg.Query,
		best:      cfg.Best,
		quiet:     cfg.Quiet,
		tmpl:      tmpl,
		palette:   p,
		opts: checker.Options{
			Draft:       cfg.Draft,
			FormatCheck: cfg.formatCheck(),
			MaxErrors:   cfg.MaxErrors,
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	failed, err := job.run(ctx, cfg.checker, cc.In, cc.Out)
	var schemaErr *jsonschema.SchemaError
	if errors.As(err, &schemaErr) {
		fmt.Fprintf(cc.Out, "%s: %s\n\n%s\n", label(args[0]), p.paint(color.FgRed)("schema is invalid"), schemaErr.Details())
		return cli.ExitCodeErr(1)
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// validateJob validates instance files against one schema file.
type validateJob struct {
	schema    string
	instances []string
	query     string
	best      bool
	quiet     bool
	tmpl      *template.Template
	palette   palette
	opts      checker.Options
}

// run writes a line per error and a summary to out and returns the number
// of invalid instances. Documents that fail to decode or to match the query
// count as invalid.
func (j *validateJob) run(ctx context.Context, chk *checker.Checker, in io.Reader, out io.Writer) (int, error) {
	schema, err := readDocument(j.schema, in)
	if err != nil {
		return 0, fmt.Errorf("reading schema: %w", err)
	}
	if j.schema != "-" {
		base, err := checker.FileURI(j.schema)
		if err != nil {
			return 0, err
		}
		j.opts.BaseURI = base
	}

	var (
		docs    []checker.Instance
		unread  int
		yellow  = j.palette.paint(color.FgYellow)
		red     = j.palette.paint(color.FgRed)
		green   = j.palette.paint(color.FgGreen)
		problem = func(format string, args ...any) {
			if !j.quiet {
				fmt.Fprintf(out, "%s %s\n", yellow("warning:"), fmt.Sprintf(format, args...))
			}
		}
	)
	for _, name := range j.instances {
		v, err := readDocument(name, in)
		if err != nil {
			problem("%s: %v", label(name), err)
			unread++
			continue
		}
		docs = append(docs, checker.Instance{Label: label(name), Value: v})
	}

	if j.query != "" {
		sel, err := query.Compile(j.query)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		var queryErrs []string
		docs, queryErrs, err = checker.Select(ctx, sel, docs)
		if err != nil {
			return 0, err
		}
		for _, msg := range queryErrs {
			problem("%s", msg)
		}
		unread += len(queryErrs)
	}

	run, err := chk.Validate(ctx, schema, docs, j.opts)
	if err != nil {
		return 0, err
	}

	if !j.quiet {
		for _, rep := range run.Reports {
			errs := rep.Errors
			if j.best && rep.Best != nil {
				errs = []*jsonschema.ValidationError{rep.Best}
			}
			for _, e := range errs {
				if err := j.tmpl.Execute(out, newErrorData(rep.Label, e)); err != nil {
					return 0, fmt.Errorf("error-format: %w", err)
				}
			}
			if rep.Truncated {
				problem("%s: more errors not shown", rep.Label)
			}
		}
	}

	failed := run.Failed() + unread
	total := len(run.Reports) + unread
	if !j.quiet {
		summary := printer.Sprintf("%d of %d instances valid under %s", total-failed, total, run.Class.Version())
		if failed > 0 {
			summary = red(summary)
		} else {
			summary = green(summary)
		}
		fmt.Fprintln(out, summary)
	}
	return failed, nil
}
