package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
	"golang.org/x/net/html"

	"github.com/djust-dev/liveclient/dom"
	"github.com/djust-dev/liveclient/morph"
)

type MorphConfig struct {
	*MainConfig
	Morph *cli.Command
}

func djcMorph(cfg *MorphConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Morph.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: expected <live.html> <next.html>", cli.ErrUsage)
	}
	live, err := loadFragment(args[0])
	if err != nil {
		return err
	}
	next, err := loadFragment(args[1])
	if err != nil {
		return err
	}
	morph.MorphChildren(live, next)
	fmt.Fprintln(cc.Out, dom.RenderChildren(live))
	return nil
}

func loadFragment(path string) (*html.Node, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return dom.ParseFragmentInto(string(d))
}
