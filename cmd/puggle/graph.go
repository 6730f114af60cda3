package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/graph"
)

func graphCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Usage:     "load a dataset into Neo4j, or write Neo4j import CSVs",
		ArgsUsage: "<dataset.json>",
		Description: "Connection settings come from the configuration file and the\n" +
			"NEO4J_URI, NEO4J_PORT, NEO4J_USER and NEO4J_PASSWORD variables.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "recreate", Usage: "delete every node before loading"},
			&cli.StringFlag{Name: "csv", Usage: "write documents.csv, entities.csv, relations.csv and document_entities.csv to this directory instead"},
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

			if dir := c.String("csv"); dir != "" {
				return e.writeGraphCSVs(ds, dir)
			}

			runner, err := graph.NewNeo4jRunner(e.cfg.Neo4j)
			if err != nil {
				return err
			}
			defer runner.Close(c.Context)

			m := graph.NewMaterializer(runner, e.logger)

			progress, bar := e.progressBar(ds.Len())
			m.Progress = func(current, total int) { _ = bar.Set(current) }

			err = m.Materialize(c.Context, ds, c.Bool("recreate"))
			progress.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(e.ui.Out, "Successfully loaded %d documents into %s\n", ds.Len(), e.cfg.Neo4j.URI)
			return nil
		},
	}
}

func (e *env) writeGraphCSVs(ds *corpus.Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	paths := graph.CSVPaths{
		Documents:        filepath.Join(dir, "documents.csv"),
		Entities:         filepath.Join(dir, "entities.csv"),
		Relations:        filepath.Join(dir, "relations.csv"),
		DocumentEntities: filepath.Join(dir, "document_entities.csv"),
	}

	t, err := graph.WriteCSVs(ds, paths, e.logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.ui.Out, "Saved %d documents, %d entities, %d relations and %d document entities to %s\n",
		len(t.Documents), len(t.Entities), len(t.Relations), len(t.DocumentEntities), dir)
	return nil
}
