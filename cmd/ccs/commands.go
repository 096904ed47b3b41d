package main

import (
	"github.com/scott-cotton/cli"
)

// MainCommand builds the ccs CLI's command tree, following
// go-tony/cmd/o/commands.go's one-function-per-command shape: each
// subcommand gets its own Config struct (embedding *MainConfig for the
// shared flags), registers its options via cli.StructOpts, and stores
// its *cli.Command back on the config so its handler can re-Parse args.
func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("ccs").
		WithSynopsis("ccs [opts] command [opts]").
		WithDescription("ccs loads and queries Cascading Configuration Sheets.").
		WithOpts(opts...).
		WithSubs(
			GetCommand(cfg),
			AugmentCommand(cfg),
			DumpCommand(cfg),
			DiffCommand(cfg))
	cfg.Main = cmd
	return cmd
}

// GetConfig backs `ccs get`.
type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("get").
		WithAliases("g").
		WithSynopsis("get <rulefile> <property> [step...]").
		WithDescription("resolve a single property after asserting the given steps").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
	cfg.Get = cmd
	return cmd
}

// AugmentConfig backs `ccs augment`.
type AugmentConfig struct {
	*MainConfig
	Properties []string
	Augment    *cli.Command
}

func AugmentCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AugmentConfig{MainConfig: mainCfg}
	opts := []*cli.Opt{
		{
			Name:        "p",
			Aliases:     []string{"property"},
			Description: "property to resolve after augmenting (repeatable)",
			Type: cli.NamedFuncOpt(func(_ *cli.Context, v string) (any, error) {
				cfg.Properties = append(cfg.Properties, v)
				return v, nil
			}, "(name)"),
		},
	}
	cmd := cli.NewCommand("augment").
		WithAliases("a").
		WithSynopsis("augment <rulefile> [step...] [-p name]...").
		WithDescription("assert a sequence of context steps and report resolved properties").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return augment(cfg, cc, args)
		})
	cfg.Augment = cmd
	return cmd
}

// DumpConfig backs `ccs dump`.
type DumpConfig struct {
	*MainConfig
	Properties []string
	Dump       *cli.Command
}

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg}
	opts := []*cli.Opt{
		{
			Name:        "p",
			Aliases:     []string{"property"},
			Description: "property to resolve after augmenting (repeatable)",
			Type: cli.NamedFuncOpt(func(_ *cli.Context, v string) (any, error) {
				cfg.Properties = append(cfg.Properties, v)
				return v, nil
			}, "(name)"),
		},
	}
	cmd := cli.NewCommand("dump").
		WithSynopsis("dump <rulefile> [step...] [-p name]...").
		WithDescription("print dag statistics and resolved properties, colorized on a terminal").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dump(cfg, cc, args)
		})
	cfg.Dump = cmd
	return cmd
}

// DiffConfig backs `ccs diff`.
type DiffConfig struct {
	*MainConfig
	Diff *cli.Command
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("diff").
		WithAliases("d").
		WithSynopsis("diff <rulefile> <property> <stepsA> <stepsB>").
		WithDescription("diff a property's resolved value between two comma-separated step sets").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}
