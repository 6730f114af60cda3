package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/stat"
)

func statsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "print token, mention and label statistics",
		ArgsUsage: "<dataset.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "fields", Usage: "also classify the structured fields"},
		},
		Action: func(c *cli.Context) error {
			path, err := datasetArg(c)
			if err != nil {
				return err
			}

			ds, err := corpus.ReadFile(path, e.cfg.Limits)
			if err != nil {
				return err
			}

			r := e.renderer(c)
			r.Stats(stat.Dataset(ds))
			if c.Bool("fields") {
				r.Fields(stat.FieldCategories(ds, e.cfg.Limits.MaxCategories))
			}
			return nil
		},
	}
}
