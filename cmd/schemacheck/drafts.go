package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/usestring/schemacheck/internal/checker"
)

var draftNames = []string{"draft3", "draft4", "draft6", "draft7"}

func drafts(cfg *DraftsConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Drafts.Parse(cc, args); err != nil {
		return err
	}
	return listDrafts(cfg.checker, cc.Out)
}

func listDrafts(chk *checker.Checker, out io.Writer) error {
	def := chk.Config().DefaultDraft
	for _, name := range draftNames {
		class, err := chk.Version(name)
		if err != nil {
			return err
		}
		mark := " "
		if d, err := chk.Version(def); err == nil && d == class {
			mark = "*"
		}
		formats := checker.FormatCheckerFor(class).Formats()
		fmt.Fprintf(out, "%s %-7s %s\n", mark, class.Version(), class.ID())
		printer.Fprintf(out, "          %d keywords, %d formats: %s\n",
			len(class.Keywords()), len(formats), strings.Join(formats, " "))
	}
	return nil
}
