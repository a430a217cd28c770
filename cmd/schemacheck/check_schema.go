package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/usestring/schemacheck/internal/checker"
)

func checkSchema(cfg *CheckSchemaConfig, cc *cli.Context, args []string) error {
	args, err := cfg.CheckSchema.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: check-schema requires at least one schema", cli.ErrUsage)
	}
	p := palette{on: cfg.colors(cc.Out)}
	invalid, err := checkSchemas(cfg.checker, cfg.Draft, args, cc.In, cc.Out, p)
	if err != nil {
		return err
	}
	if invalid > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkSchemas reports every meta-schema violation of each schema file and
// returns how many schemas are invalid. Unreadable files count as invalid.
func checkSchemas(chk *checker.Checker, draft string, names []string, in io.Reader, out io.Writer, p palette) (int, error) {
	var (
		red   = p.paint(color.FgRed)
		green = p.paint(color.FgGreen)
		cyan  = p.paint(color.FgCyan)
		blue  = p.paint(color.FgBlue)
	)
	invalid := 0
	for _, name := range names {
		schema, err := readDocument(name, in)
		if err != nil {
			fmt.Fprintf(out, "%s: %s %v\n", cyan(label(name)), red("unreadable:"), err)
			invalid++
			continue
		}
		class, errs, err := chk.SchemaErrors(schema, draft)
		if err != nil {
			return invalid, fmt.Errorf("%s: %w", label(name), err)
		}
		if len(errs) == 0 {
			fmt.Fprintf(out, "%s: %s\n", cyan(label(name)), green(printer.Sprintf("valid under %s", class.Version())))
			continue
		}
		invalid++
		for _, e := range errs {
			fmt.Fprintf(out, "%s%s: %s\n", cyan(label(name)), blue("#"+e.AbsolutePath().Pointer()), e.Message)
		}
		fmt.Fprintf(out, "%s: %s\n", cyan(label(name)), red(printer.Sprintf("%d problems under %s", len(errs), class.Version())))
	}
	return invalid, nil
}
