package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='force color output'"`
	NoColor bool `cli:"name=no-color desc='disable color output'"`

	Main *cli.Command
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "djc").
		WithSynopsis("djc [opts] command [opts]").
		WithDescription("djc is a tool for working with djust client trees: apply patch batches, morph markup, trace live sessions.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return djcMain(cfg, cc, args)
		}).
		WithSubs(
			ApplyCommand(cfg),
			MorphCommand(cfg),
			ConnectCommand(cfg))
}

func djcMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	cfg.setupColor()
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) setupColor() {
	switch {
	case cfg.NoColor:
		color.NoColor = true
	case cfg.Color:
		color.NoColor = false
	default:
		color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
	}
}

func ApplyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ApplyConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Apply, "apply").
		WithAliases("a").
		WithSynopsis("apply <patches.json> <file.html>").
		WithDescription("apply a patch batch to an HTML fragment and print the result").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return djcApply(cfg, cc, args)
		})
}

func MorphCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MorphConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Morph, "morph").
		WithAliases("m").
		WithSynopsis("morph <live.html> <next.html>").
		WithDescription("reconcile a live fragment against replacement markup and print the result").
		WithRun(func(cc *cli.Context, args []string) error {
			return djcMorph(cfg, cc, args)
		})
}

func ConnectCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConnectConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Connect, "connect").
		WithAliases("c").
		WithSynopsis("connect [-config file] <url>").
		WithDescription("run a live session against a server and trace what it does to the tree").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return djcConnect(cfg, cc, args)
		})
}
