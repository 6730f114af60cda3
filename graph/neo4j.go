package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/revelaction/puggle/config"
	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/logging"
)

var ErrUnavailable = errors.New("the Neo4j graph does not appear to be running")

// Runner executes statements against a graph database.
type Runner interface {
	Ping(ctx context.Context) error
	Run(ctx context.Context, cypher string, params map[string]any) error
}

type Neo4jRunner struct {
	driver   neo4j.DriverWithContext
	uri      string
	database string
}

var _ Runner = (*Neo4jRunner)(nil)

func NewNeo4jRunner(cfg config.Neo4j) (*Neo4jRunner, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver for %s: %w", cfg.URI, err)
	}

	return &Neo4jRunner{driver: driver, uri: cfg.URI, database: cfg.Database}, nil
}

func (r *Neo4jRunner) Ping(ctx context.Context) error {
	if err := r.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("please run Neo4j at %s to proceed: %w", r.uri, err)
	}
	return nil
}

func (r *Neo4jRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, r.driver, cypher, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.database))
	return err
}

func (r *Neo4jRunner) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

const clearGraph = "MATCH (n) DETACH DELETE n"

// logEvery is how often, in documents, Materialize logs its progress.
const logEvery = 1000

type Materializer struct {
	Runner Runner
	Logger *slog.Logger

	// Progress, when set, is called after each document.
	Progress func(current, total int)
}

func NewMaterializer(r Runner, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Materializer{Runner: r, Logger: logger}
}

// Materialize writes ds into the graph. With recreate the graph is emptied
// first. The first failing statement aborts the run.
func (m *Materializer) Materialize(ctx context.Context, ds *corpus.Dataset, recreate bool) error {
	if err := m.Runner.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if recreate {
		if err := m.Runner.Run(ctx, clearGraph, nil); err != nil {
			return fmt.Errorf("clear graph: %w", err)
		}
	}

	total := ds.Len()
	for i, doc := range ds.Documents {
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, st := range DocumentStatements(i, doc) {
			if err := m.Runner.Run(ctx, st.Cypher, st.Params); err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
		}

		if m.Progress != nil {
			m.Progress(i+1, total)
		}

		if i > 0 && i%logEvery == 0 {
			m.Logger.Info("processed documents", "count", i)
		}
	}

	m.Logger.Info("graph creation complete", "documents", total)
	return nil
}
