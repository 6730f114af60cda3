package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
)

const defaultSmartSamples = 10

func sampleCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "draw a sample or a train/dev/test split",
		Subcommands: []*cli.Command{
			{
				Name:      "random",
				Usage:     "n documents drawn uniformly without replacement",
				ArgsUsage: "<dataset.json>",
				Flags:     []cli.Flag{sizeFlag(), seedFlag(), outFlag()},
				Action: func(c *cli.Context) error {
					ds, r, err := e.sampleInput(c)
					if err != nil {
						return err
					}
					sample, err := ds.RandomSample(r, c.Int("n"))
					if err != nil {
						return err
					}
					fmt.Fprintln(e.ui.Out, sample.Summary())
					return e.save(sample, c.String("out"), corpus.JSON)
				},
			},
			{
				Name:      "smart",
				Usage:     "n documents chosen to maximize token, entity and relation diversity",
				ArgsUsage: "<dataset.json>",
				Flags: []cli.Flag{
					sizeFlag(), seedFlag(), outFlag(),
					&cli.IntFlag{Name: "samples", Value: defaultSmartSamples, Usage: "candidate samples to build before keeping the best"},
				},
				Action: func(c *cli.Context) error {
					ds, r, err := e.sampleInput(c)
					if err != nil {
						return err
					}
					sample, err := ds.SmartSample(r, c.Int("n"), c.Int("samples"))
					if err != nil {
						return err
					}
					fmt.Fprintln(e.ui.Out, sample.Summary())
					return e.save(sample, c.String("out"), corpus.JSON)
				},
			},
			{
				Name:      "split",
				Usage:     "shuffle and split 80/10/10 into train.json, dev.json and test.json",
				ArgsUsage: "<dataset.json>",
				Flags: []cli.Flag{
					seedFlag(),
					&cli.StringFlag{Name: "out-dir", Required: true, Usage: "directory of the three files"},
				},
				Action: func(c *cli.Context) error {
					ds, r, err := e.sampleInput(c)
					if err != nil {
						return err
					}

					dir := c.String("out-dir")
					if err := os.MkdirAll(dir, 0755); err != nil {
						return fmt.Errorf("failed to create target directory: %w", err)
					}

					train, dev, test := ds.RandomSplit(r)
					parts := []struct {
						name string
						ds   *corpus.Dataset
					}{{"train", train}, {"dev", dev}, {"test", test}}

					for _, p := range parts {
						if err := e.save(p.ds, filepath.Join(dir, p.name+".json"), corpus.JSON); err != nil {
							return err
						}
						fmt.Fprintf(e.ui.Out, "%s: %s\n", p.name, p.ds.Summary())
					}
					return nil
				},
			},
		},
	}
}

func seedFlag() cli.Flag {
	return &cli.Int64Flag{Name: "seed", Usage: "random seed, the current time when not set"}
}

func sizeFlag() cli.Flag {
	return &cli.IntFlag{Name: "n", Required: true, Usage: "number of documents"}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "save the result to this file"}
}

func (e *env) sampleInput(c *cli.Context) (*corpus.Dataset, *rand.Rand, error) {
	path, err := datasetArg(c)
	if err != nil {
		return nil, nil, err
	}

	ds, err := corpus.ReadFile(path, e.cfg.Limits)
	if err != nil {
		return nil, nil, err
	}
	if ds.Len() == 0 {
		return nil, nil, errors.New("the dataset is empty")
	}

	seed := c.Int64("seed")
	if !c.IsSet("seed") {
		seed = time.Now().UnixNano()
	}
	e.logger.Debug("sampling", "seed", seed)

	return ds, rand.New(rand.NewSource(seed)), nil
}
