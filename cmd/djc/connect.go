package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/djust-dev/liveclient/client"
	"github.com/djust-dev/liveclient/dom"
)

type ConnectConfig struct {
	ConfigFile string `cli:"name=config desc='YAML config file'"`
	View       string `cli:"name=view desc='view id to mount (default: sole view)'"`

	*MainConfig
	Connect *cli.Command
}

var theLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	},
}))

func djcConnect(cfg *ConnectConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Connect.Parse(cc, args)
	if err != nil {
		return err
	}
	ccfg := client.DefaultConfig()
	if cfg.ConfigFile != "" {
		ccfg, err = client.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return err
		}
	}
	if len(args) == 1 {
		ccfg.URL = args[0]
	}
	if ccfg.URL == "" {
		return fmt.Errorf("%w: expected <url> or -config with url", cli.ErrUsage)
	}

	// Start from a bare marked container; the server's mount message
	// hydrates it.
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	dom.SetAttr(root, dom.AttrRoot, "")
	doc := dom.NewDocument(root)

	c := client.New(ccfg, doc)
	viewID := cfg.View
	if viewID == "" {
		viewID = "main"
	}
	if _, err := c.Mount(viewID, ""); err != nil {
		return err
	}
	theLog.Info("connecting", "url", ccfg.URL, "session", c.SessionID())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = c.Run(ctx)
	if ctx.Err() != nil {
		theLog.Info("session closed")
		fmt.Fprintln(cc.Out, dom.RenderChildren(root))
		return nil
	}
	return err
}
