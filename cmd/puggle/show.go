package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/render"
)

func showCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print the documents of a dataset",
		ArgsUsage: "<dataset.json>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "start", Usage: "index of the first document"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "number of documents, all when 0"},
			&cli.StringFlag{Name: "view", Value: render.Defaultformat, Usage: "all or mentions"},
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

			start, count := c.Int("start"), c.Int("count")
			if start < 0 || (start >= ds.Len() && ds.Len() > 0) {
				return fmt.Errorf("start %d out of bounds (dataset has %d documents)", start, ds.Len())
			}
			end := ds.Len()
			if count > 0 && start+count < end {
				end = start + count
			}

			r := e.renderer(c)
			if tr, ok := r.(*render.TextRenderer); ok {
				if !isSupportedView(c.String("view")) {
					return fmt.Errorf("view must be one of %v", render.SupportedFormats())
				}
				tr.Format = c.String("view")
			}

			for i := start; i < end; i++ {
				r.Document(i, ds.Documents[i])
			}
			return nil
		},
	}
}

func isSupportedView(v string) bool {
	for _, f := range render.SupportedFormats() {
		if f == v {
			return true
		}
	}
	return false
}
