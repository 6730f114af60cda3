package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/corpus"
)

func manipCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "manip",
		Usage:     "drop, rename or flatten entity and relation classes",
		ArgsUsage: "<dataset.json>",
		Description: "Operations run in flag order: drops, conversions, then flattening.\n" +
			"Conversions are given as from=to.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "drop-entity", Usage: "remove an entity class and its relations"},
			&cli.StringSliceFlag{Name: "drop-relation", Usage: "remove a relation class"},
			&cli.StringSliceFlag{Name: "convert-entity", Usage: "rename an entity class, from=to"},
			&cli.StringSliceFlag{Name: "convert-relation", Usage: "rename a relation class, from=to"},
			&cli.BoolFlag{Name: "flatten-entities", Usage: "collapse a/b/c entity classes to a"},
			&cli.BoolFlag{Name: "flatten-relations", Usage: "collapse a/b/c relation classes to a"},
			outFlag(),
		},
		Action: func(c *cli.Context) error {
			path, err := datasetArg(c)
			if err != nil {
				return err
			}

			entityConv, err := parseConversions(c.StringSlice("convert-entity"))
			if err != nil {
				return err
			}
			relationConv, err := parseConversions(c.StringSlice("convert-relation"))
			if err != nil {
				return err
			}

			ds, err := corpus.ReadFile(path, e.cfg.Limits)
			if err != nil {
				return err
			}

			for _, l := range c.StringSlice("drop-entity") {
				fmt.Fprintf(e.ui.Out, "dropped %d mentions labelled %s\n", ds.DropEntityClass(l), l)
			}
			for _, l := range c.StringSlice("drop-relation") {
				fmt.Fprintf(e.ui.Out, "dropped %d relations labelled %s\n", ds.DropRelationClass(l), l)
			}
			for _, cv := range entityConv {
				fmt.Fprintf(e.ui.Out, "relabelled %d mentions from %s to %s\n", ds.ConvertEntityClass(cv[0], cv[1]), cv[0], cv[1])
			}
			for _, cv := range relationConv {
				fmt.Fprintf(e.ui.Out, "relabelled %d relations from %s to %s\n", ds.ConvertRelationClass(cv[0], cv[1]), cv[0], cv[1])
			}
			if c.Bool("flatten-entities") {
				fmt.Fprintf(e.ui.Out, "flattened %d mentions\n", ds.FlattenEntityClasses())
			}
			if c.Bool("flatten-relations") {
				fmt.Fprintf(e.ui.Out, "flattened %d relations\n", ds.FlattenRelationClasses())
			}

			fmt.Fprintln(e.ui.Out, ds.Summary())
			return e.save(ds, c.String("out"), corpus.JSON)
		},
	}
}

func parseConversions(values []string) ([][2]string, error) {
	var convs [][2]string
	for _, v := range values {
		from, to, ok := strings.Cut(v, "=")
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("conversion must be from=to, got %q", v)
		}
		convs = append(convs, [2]string{from, to})
	}
	return convs, nil
}
