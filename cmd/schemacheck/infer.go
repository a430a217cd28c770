package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	inferpkg "github.com/usestring/schemacheck/pkg/infer"
)

func infer(cfg *InferConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Infer.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	opts := inferpkg.DefaultOptions()
	opts.StrictRequired = !cfg.NoRequired
	if cfg.Closed {
		closed := false
		opts.AdditionalProperties = &closed
	}
	return inferSchema(opts, args, cc.In, cc.Out)
}

// inferSchema writes the schema inferred from the sample files to out as
// indented JSON.
func inferSchema(opts *inferpkg.Options, names []string, in io.Reader, out io.Writer) error {
	samples := make([]any, 0, len(names))
	for _, name := range names {
		v, err := readDocument(name, in)
		if err != nil {
			return fmt.Errorf("%s: %w", label(name), err)
		}
		samples = append(samples, v)
	}
	result, err := inferpkg.FromValues(opts, samples...)
	if err != nil {
		return err
	}
	if err := result.Verify(samples...); err != nil {
		return fmt.Errorf("inferred schema rejects its samples: %w", err)
	}
	data, err := json.MarshalIndent(result.Schema, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
