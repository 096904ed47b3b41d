package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"github.com/hellige/ccs-go/ccs"
)

// MainConfig holds the options shared by every subcommand
// (go-tony/cmd/o's MainConfig convention): shared flags live on the
// root and each subcommand embeds a pointer back to it.
type MainConfig struct {
	Verbose bool `cli:"name=v desc='log loading and evaluation details to stderr'"`
	Poison  bool `cli:"name=poison desc='enable constraint-exclusivity poisoning'"`

	Main *cli.Command
}

func (cfg *MainConfig) logger() *zap.Logger {
	if cfg.Verbose {
		l, _ := zap.NewDevelopment()
		return l
	}
	return zap.NewNop()
}

func (cfg *MainConfig) ccsOpts() []ccs.Option {
	var opts []ccs.Option
	if cfg.Poison {
		opts = append(opts, ccs.WithPoisoning())
	}
	return opts
}

// step is one asserted context step parsed off the command line, as
// either a bare name (wildcard) or a name=value pair.
type step struct {
	name  string
	value *string
}

func parseSteps(args []string) ([]step, error) {
	steps := make([]step, 0, len(args))
	for _, a := range args {
		if a == "" {
			continue
		}
		if name, value, ok := strings.Cut(a, "="); ok {
			v := value
			steps = append(steps, step{name: name, value: &v})
		} else {
			steps = append(steps, step{name: a})
		}
	}
	return steps, nil
}

func augmentAll(c ccs.Context, steps []step) ccs.Context {
	for _, s := range steps {
		if s.value != nil {
			c = c.AugmentValue(s.name, *s.value)
		} else {
			c = c.Augment(s.name)
		}
	}
	return c
}

// loadFile opens path (or stdin for "-") and loads it as a ruleset,
// wiring a filesystem import resolver rooted at the file's directory.
func loadFile(cfg *MainConfig, path string) (ccs.Context, error) {
	log := cfg.logger()
	var (
		data []byte
		err  error
	)
	baseDir := "."
	if path == "-" {
		data, err = readAll(os.Stdin)
		path = "<stdin>"
	} else {
		data, err = os.ReadFile(path)
		baseDir = dirOf(path)
	}
	if err != nil {
		log.Error("reading ruleset", zap.String("path", path), zap.Error(err))
		return ccs.Context{}, fmt.Errorf("reading %s: %w", path, err)
	}
	opts := append([]ccs.Option{ccs.WithImportResolver(fileResolver{baseDir: baseDir})}, cfg.ccsOpts()...)
	if cfg.Verbose {
		opts = append(opts, ccs.WithTrace(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	}
	c, err := ccs.FromStream(newReader(data), path, opts...)
	if err != nil {
		log.Error("parsing ruleset", zap.String("path", path), zap.Error(err))
		return ccs.Context{}, err
	}
	return c, nil
}
