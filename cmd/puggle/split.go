package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/sentence"
)

func splitCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "split every document into sentences",
		ArgsUsage: "<dataset.json>",
		Description: "Relations that cross a sentence boundary are removed and reported.\n" +
			"Each sentence keeps the index of its document.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "delimiter", Aliases: []string{"d"}, Value: sentence.DefaultDelimiter, Usage: "token that ends a sentence"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "save the sentence dataset to this file"},
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

			sentences, report, err := ds.SplitSentences(sentence.New(c.String("delimiter"), e.cfg.Limits))
			if err != nil {
				return err
			}

			e.renderer(c).SplitReport(report)
			return e.save(sentences, c.String("out"), corpus.JSON)
		},
	}
}
