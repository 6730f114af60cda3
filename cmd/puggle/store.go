package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/storage"
)

func storeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "store",
		Aliases:  []string{"s"},
		Required: true,
		Usage:    "dataset store: a directory, or a sqlite database file",
		EnvVars:  []string{"PUGGLE_STORE"},
	}
}

func importCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "copy a dataset file into a store",
		ArgsUsage: "<dataset.json>",
		Flags: []cli.Flag{
			storeFlag(),
			&cli.StringFlag{Name: "name", Usage: "dataset name, the file name without extension when empty"},
		},
		Action: func(c *cli.Context) error {
			path, err := datasetArg(c)
			if err != nil {
				return err
			}

			repo, err := NewDatasetRepository(&e.pool, c.String("store"), e.cfg.Limits, true)
			if err != nil {
				return err
			}

			fmt.Fprintf(e.ui.Out, "Reading dataset from %s...\n", path)
			ds, err := corpus.ReadFile(path, e.cfg.Limits)
			if err != nil {
				return err
			}

			name := c.String("name")
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			progress, bar := e.progressBar(ds.Len())
			id, err := repo.Write(name, ds, func(current, total int) { _ = bar.Set(current) })
			progress.Stop()
			if err != nil {
				return fmt.Errorf("failed to write dataset %s: %w", name, err)
			}

			fmt.Fprintf(e.ui.Out, "Successfully imported %d documents from %s to %s (id %s)\n", ds.Len(), path, c.String("store"), id)
			return nil
		},
	}
}

func exportCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write a stored dataset to a file",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			storeFlag(),
			&cli.StringFlag{Name: "to", Value: string(corpus.JSON), Usage: "output format: json, spert or quickgraph"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("export: expected one dataset id, got %d arguments", c.NArg())
			}
			id := c.Args().First()

			of, err := corpus.ParseOutputFormat(c.String("to"))
			if err != nil {
				return err
			}

			repo, err := NewDatasetRepository(&e.pool, c.String("store"), e.cfg.Limits, false)
			if err != nil {
				return err
			}

			ds, err := repo.Read(id)
			if err != nil {
				return err
			}

			if err := e.save(ds, c.String("out"), of); err != nil {
				return err
			}

			fmt.Fprintf(e.ui.Out, "Successfully exported %d documents from %s to %s\n", ds.Len(), id, c.String("out"))
			return nil
		},
	}
}

func lsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "list the datasets of a store",
		Flags: []cli.Flag{storeFlag()},
		Action: func(c *cli.Context) error {
			repo, err := NewDatasetRepository(&e.pool, c.String("store"), e.cfg.Limits, false)
			if err != nil {
				return err
			}

			infos, err := repo.List()
			if err != nil {
				return err
			}

			for _, info := range infos {
				fmt.Fprintf(e.ui.Out, "📖 %s %s (%d documents)%s\n", info.ID, info.Name, info.Documents, created(info))
			}
			return nil
		},
	}
}

func created(info storage.DatasetInfo) string {
	if info.Created.IsZero() {
		return ""
	}
	return " " + info.Created.Format("2006-01-02 15:04:05")
}

func rmCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "delete a dataset from a store",
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{storeFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("rm: expected one dataset id, got %d arguments", c.NArg())
			}

			repo, err := NewDatasetRepository(&e.pool, c.String("store"), e.cfg.Limits, false)
			if err != nil {
				return err
			}

			if err := repo.Delete(c.Args().First()); err != nil {
				return err
			}

			fmt.Fprintf(e.ui.Out, "Deleted %s\n", c.Args().First())
			return nil
		},
	}
}

// progressBar starts a progress bar on the error stream. The caller stops
// the returned Progress.
func (e *env) progressBar(total int) (*uiprogress.Progress, *uiprogress.Bar) {
	progress := uiprogress.New()
	progress.Out = e.ui.Err
	bar := progress.AddBar(total)
	bar.AppendCompleted()
	bar.PrependElapsed()
	progress.Start()
	return progress, bar
}
