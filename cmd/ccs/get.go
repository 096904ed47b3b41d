package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: get requires a rule file and a property name", cli.ErrUsage)
	}
	file, name := args[0], args[1]
	steps, err := parseSteps(args[2:])
	if err != nil {
		return err
	}

	c, err := loadFile(cfg.MainConfig, file)
	if err != nil {
		return err
	}
	c = augmentAll(c, steps)

	value, err := c.GetSingleValue(name)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", name, err)
	}
	fmt.Fprintln(cc.Out, value)
	return nil
}
