package main

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

// diff resolves one property under two different step sets over the
// same ruleset and renders a character-level diff of the results, the same
// diffmatchpatch.New().DiffMain pattern libdiff/string.go uses to diff
// two string IR leaves.
func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 4 {
		return fmt.Errorf("%w: diff requires <rulefile> <property> <stepsA> <stepsB>", cli.ErrUsage)
	}
	file, name, stepsA, stepsB := args[0], args[1], args[2], args[3]

	base, err := loadFile(cfg.MainConfig, file)
	if err != nil {
		return err
	}

	a, err := parseSteps(splitNonEmpty(stepsA, ","))
	if err != nil {
		return err
	}
	b, err := parseSteps(splitNonEmpty(stepsB, ","))
	if err != nil {
		return err
	}

	valA, errA := augmentAll(base, a).GetSingleValue(name)
	valB, errB := augmentAll(base, b).GetSingleValue(name)
	if errA != nil {
		return fmt.Errorf("resolving %s under %q: %w", name, stepsA, errA)
	}
	if errB != nil {
		return fmt.Errorf("resolving %s under %q: %w", name, stepsB, errB)
	}

	if valA == valB {
		fmt.Fprintf(cc.Out, "%s: unchanged: %s\n", name, valA)
		return nil
	}

	dmp := diffpatch.New()
	diffs := dmp.DiffMain(valA, valB, false)
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			fmt.Fprint(cc.Out, color.GreenString(d.Text))
		case diffpatch.DiffDelete:
			fmt.Fprint(cc.Out, color.RedString(d.Text))
		case diffpatch.DiffEqual:
			fmt.Fprint(cc.Out, d.Text)
		}
	}
	fmt.Fprintln(cc.Out)
	return cli.ExitCodeErr(1)
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}
