package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		cfg.Dump.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 1 {
		return fmt.Errorf("%w: dump requires a rule file", cli.ErrUsage)
	}
	file := args[0]
	steps, err := parseSteps(args[1:])
	if err != nil {
		return err
	}

	c, err := loadFile(cfg.MainConfig, file)
	if err != nil {
		return err
	}
	c = augmentAll(c, steps)

	colored := isatty.IsTerminal(os.Stdout.Fd())
	label := plainf
	good := plainf
	bad := plainf
	if colored {
		label = color.New(color.FgCyan).SprintfFunc()
		good = color.New(color.FgGreen).SprintfFunc()
		bad = color.New(color.FgRed).SprintfFunc()
	}

	s := c.Stats()
	fmt.Fprintf(cc.Out, "%s literals=%d clauses=%d formulae=%d props=%d edges=%d tallyMax=%d fanoutMax=%d\n",
		label("dag:"), s.Literals, s.Clauses, s.Formulae, s.Props, s.Edges, s.TallyMax, s.FanoutMax)
	fmt.Fprintf(cc.Out, "%s %s\n", label("path:"), c.PathString())

	for _, name := range cfg.Properties {
		value, err := c.GetSingleValue(name)
		if err != nil {
			fmt.Fprintf(cc.Out, "%s %s\n", label(name+":"), bad(err.Error()))
			continue
		}
		fmt.Fprintf(cc.Out, "%s %s\n", label(name+":"), good(value))
	}
	return nil
}

func plainf(format string, args ...any) string { return fmt.Sprintf(format, args...) }
