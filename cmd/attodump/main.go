// Command attodump is a demonstration CLI for the atto package: it parses
// a markup file, optionally tracing parse events through a logrus handler,
// and writes the resulting etree-built document back out. It lives outside
// the core library on purpose -- atto itself has no CLI surface.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ashkart/attoparser"
	"github.com/ashkart/attoparser/handlers"
)

func run(c *cli.Context) error {
	inputFileName := c.Args().First()
	if inputFileName == "" {
		return cli.Exit("no input file provided", 1)
	}

	log := logrus.New()
	if c.Bool("trace") {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	in, err := os.Open(inputFileName)
	if err != nil {
		return err
	}
	defer in.Close()

	cfg := buildConfig(c)

	builder := handlers.NewEtreeBuilder()
	chain := handlers.NewChain(handlers.NewLogging(log), builder)

	start := time.Now()
	if err := atto.Parse(in, chain, cfg); err != nil {
		return fmt.Errorf("attodump: %w", err)
	}
	log.WithField("elapsed", time.Since(start)).Debug("parse complete")

	builder.Document.Indent(2)
	out := os.Stdout
	if name := c.String("output"); name != "" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	_, err = builder.Document.WriteTo(out)
	return err
}

func buildConfig(c *cli.Context) *atto.Config {
	var opts []atto.Option
	if c.IsSet("case-sensitive") {
		opts = append(opts, atto.WithCaseSensitive(c.Bool("case-sensitive")))
	}
	if c.Bool("strict") {
		opts = append(opts, atto.WithElementBalancing(atto.BalancingRequired))
	}

	switch c.String("dialect") {
	case "xml":
		return atto.NewXMLConfig(opts...)
	default:
		return atto.NewHTMLConfig(opts...)
	}
}

func main() {
	app := &cli.App{
		Name:      "attodump",
		Usage:     "parse a markup document and dump the resulting element tree",
		UsageText: "attodump [options] FILE",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dialect",
				Value: "html",
				Usage: "markup dialect: html or xml",
			},
			&cli.BoolFlag{
				Name:  "case-sensitive",
				Usage: "compare attribute names case-sensitively when checking for duplicates",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "disable HTML auto-balancing recovery (BalancingRequired)",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "log document, element and text events at debug level",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the element tree to `FILE` instead of stdout",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
