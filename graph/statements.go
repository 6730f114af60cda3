// Package graph materializes a dataset as a property graph: Document nodes,
// Entity nodes labelled with their mention class, and typed relationships
// between entities that appear in the same document.
package graph

import (
	"strings"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
)

// Statement is one parameterized Cypher query. Values always travel as
// parameters; node labels and relationship types cannot be parameters, so
// they are quoted into the text.
type Statement struct {
	Cypher string
	Params map[string]any
}

const mergeDocument = "MERGE (d:Document {doc_idx: $doc_idx})"

const setFields = `MATCH (d:Document {doc_idx: $doc_idx})
SET d += $fields`

// Statements returns the statements of every document, in dataset order.
func Statements(ds *corpus.Dataset) []Statement {
	var stmts []Statement
	for i, doc := range ds.Documents {
		stmts = append(stmts, DocumentStatements(i, doc)...)
	}
	return stmts
}

// DocumentStatements returns the statements that create document i: its
// node, its structured fields and one block per relation. Relations whose
// endpoints have the same surface text are skipped, they would produce a
// self loop on the Entity node.
func DocumentStatements(i int, doc *annotation.Document) []Statement {
	stmts := []Statement{{
		Cypher: mergeDocument,
		Params: map[string]any{"doc_idx": i},
	}}

	if len(doc.Fields) > 0 {
		stmts = append(stmts, Statement{
			Cypher: setFields,
			Params: map[string]any{"doc_idx": i, "fields": map[string]any(doc.Fields)},
		})
	}

	if doc.Annotation == nil {
		return stmts
	}

	for _, rel := range doc.Annotation.Relations {
		start := strings.Join(rel.Start.Tokens, " ")
		end := strings.Join(rel.End.Tokens, " ")
		if start == end {
			continue
		}

		stmts = append(stmts, Statement{
			Cypher: relationCypher(rel),
			Params: map[string]any{"doc_idx": i, "start": start, "end": end},
		})
	}

	return stmts
}

func relationCypher(rel *annotation.Relation) string {
	var b strings.Builder
	b.WriteString("MATCH (d:Document {doc_idx: $doc_idx})\n")
	b.WriteString("MERGE (e1:Entity:" + quote(rel.Start.Label) + " {name: $start})\n")
	b.WriteString("MERGE (e2:Entity:" + quote(rel.End.Label) + " {name: $end})\n")
	b.WriteString("MERGE (e1)-[:" + quote(rel.Label) + "]->(e2)\n")
	b.WriteString("MERGE (e1)-[:APPEARS_IN]->(d)\n")
	b.WriteString("MERGE (e2)-[:APPEARS_IN]->(d)")
	return b.String()
}

// quote escapes a label or relationship type as a Cypher identifier.
func quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
