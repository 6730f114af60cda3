package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/format"
)

func loadCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "build a dataset from structured fields and annotations",
		Description: "Row i of the CSV file is paired with document i of the annotation file.\n" +
			"Either file may be omitted, but not both.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "fields", Aliases: []string{"f"}, Usage: "CSV file of structured fields, with a header"},
			&cli.StringFlag{Name: "annotations", Aliases: []string{"a"}, Usage: "JSON file of annotations"},
			&cli.StringFlag{Name: "format", Value: string(format.Spert), Usage: "annotation format: spert or quickgraph"},
			&cli.StringFlag{Name: "into", Usage: "append to this dataset file instead of starting empty"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "save the dataset to this file"},
		},
		Action: func(c *cli.Context) error {
			f, err := format.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}

			ds := corpus.New()
			if into := c.String("into"); into != "" {
				if ds, err = corpus.ReadFile(into, e.cfg.Limits); err != nil {
					return err
				}
			}

			loader := corpus.NewLoader(e.cfg.Limits, e.logger)
			if err := loader.LoadInto(ds, c.String("fields"), c.String("annotations"), f); err != nil {
				return err
			}

			fmt.Fprintln(e.ui.Out, ds.Summary())
			return e.save(ds, c.String("out"), corpus.JSON)
		},
	}
}

// save writes ds to path, or does nothing when path is empty.
func (e *env) save(ds *corpus.Dataset, path string, of corpus.OutputFormat) error {
	if path == "" {
		return nil
	}
	if err := ds.SaveFile(path, of); err != nil {
		return err
	}
	e.logger.Info("saved dataset", "path", path, "format", string(of), "documents", ds.Len())
	return nil
}
