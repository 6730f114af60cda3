package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/puggle/config"
	"github.com/revelaction/puggle/logging"
	"github.com/revelaction/puggle/render"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).RunContext(context.Background(), os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "puggle: %v\n", err)
}

// env is what every command needs: the configuration, the logger and the
// lazily opened sqlite pool.
type env struct {
	ui     UI
	cfg    *config.Config
	logger *slog.Logger
	pool   Pool
}

func newApp(ui UI) *cli.App {
	e := &env{ui: ui}

	return &cli.App{
		Name:                 "puggle",
		Usage:                "load, transform and export annotated text datasets",
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		HideVersion:          true,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"PUGGLE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"PUGGLE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "text or json",
				EnvVars: []string{"PUGGLE_LOG_FORMAT"},
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "do not color the output",
				EnvVars: []string{"NO_COLOR"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "write documents, statistics and reports as JSON",
			},
		},
		Before: e.setup,
		After: func(c *cli.Context) error {
			return e.pool.Close()
		},
		Commands: []*cli.Command{
			loadCommand(e),
			convertCommand(e),
			showCommand(e),
			splitCommand(e),
			statsCommand(e),
			sampleCommand(e),
			manipCommand(e),
			graphCommand(e),
			importCommand(e),
			exportCommand(e),
			lsCommand(e),
			rmCommand(e),
			inspectCommand(e),
			versionCommand(e),
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	level, err := logging.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.String("log-format"))
	if err != nil {
		return err
	}
	e.logger = logging.New(e.ui.Err, level, format)

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	e.cfg = cfg

	e.logger.Debug("configuration loaded", "limits", cfg.Limits, "neo4j", cfg.Neo4j.URI)
	return nil
}

func (e *env) renderer(c *cli.Context) render.Renderer {
	if c.Bool("json") {
		return render.NewJSONRenderer(e.ui.Out)
	}
	return e.textRenderer(c)
}

func (e *env) textRenderer(c *cli.Context) *render.TextRenderer {
	r := render.NewTextRenderer(e.ui.Out)
	r.HasColor = !c.Bool("no-color")
	return r
}

// datasetArg returns the single dataset file argument of a command.
func datasetArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s: expected one dataset file, got %d arguments", c.Command.Name, c.NArg())
	}
	return c.Args().First(), nil
}
