package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func augment(cfg *AugmentConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Augment.Parse(cc, args)
	if err != nil {
		cfg.Augment.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 1 {
		return fmt.Errorf("%w: augment requires a rule file", cli.ErrUsage)
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

	fmt.Fprintf(cc.Out, "path: %s\n", c.PathString())
	for _, name := range cfg.Properties {
		value, err := c.GetSingleValue(name)
		if err != nil {
			fmt.Fprintf(cc.Out, "%s: error: %v\n", name, err)
			continue
		}
		fmt.Fprintf(cc.Out, "%s: %s\n", name, value)
	}
	return nil
}
