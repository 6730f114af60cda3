package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
)

func convertCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "write a dataset as json, spert or quickgraph",
		ArgsUsage: "<dataset.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Value: string(corpus.JSON), Usage: "output format: json, spert or quickgraph"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
		},
		Action: func(c *cli.Context) error {
			path, err := datasetArg(c)
			if err != nil {
				return err
			}

			of, err := corpus.ParseOutputFormat(c.String("to"))
			if err != nil {
				return err
			}

			ds, err := corpus.ReadFile(path, e.cfg.Limits)
			if err != nil {
				return err
			}

			if out := c.String("out"); out != "" {
				return e.save(ds, out, of)
			}
			return ds.Save(e.ui.Out, of)
		},
	}
}
