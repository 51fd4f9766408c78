package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/djust-dev/liveclient/dom"
	"github.com/djust-dev/liveclient/patch"
)

type ApplyConfig struct {
	Schedule bool `cli:"name=schedule desc='print the scheduled order instead of applying'"`

	*MainConfig
	Apply *cli.Command
}

func djcApply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: expected <patches.json> <file.html>", cli.ErrUsage)
	}
	pd, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	batch, err := patch.DecodeBatch(pd)
	if err != nil {
		return err
	}
	if cfg.Schedule {
		for i, p := range patch.Schedule(batch) {
			fmt.Fprintf(cc.Out, "%3d %-12s %s\n", i, p.Kind, dom.FormatPath(p.Path))
		}
		return nil
	}
	hd, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	root, err := dom.ParseFragmentInto(string(hd))
	if err != nil {
		return err
	}
	if err := patch.Apply(root, batch); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("batch failed:"), err)
		return err
	}
	fmt.Fprintf(os.Stderr, "%s\n", color.GreenString("applied %d patches", len(batch)))
	fmt.Fprintln(cc.Out, dom.RenderChildren(root))
	return nil
}
