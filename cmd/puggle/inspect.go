package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/inspect"
)

func inspectCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "browse and edit a dataset interactively",
		ArgsUsage: "<dataset.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "save the edited dataset to this file on quit"},
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

			h := inspect.NewHandler(ds, e.textRenderer(c))
			if err := h.Run(); err != nil {
				return err
			}

			return e.save(ds, c.String("out"), corpus.JSON)
		},
	}
}
