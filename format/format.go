// Package format translates the external annotation schemas (spert and
// quickgraph) into the canonical raw document and back.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/revelaction/puggle/annotation"
)

type Format string

const (
	// Spert carries entity types and head/tail relation indices.
	Spert Format = "spert"

	// Quickgraph carries entity ids with an inclusive end, relations
	// referencing entities by id, and an optional annotator-keyed wrapping.
	Quickgraph Format = "quickgraph"
)

var Formats = []Format{Quickgraph, Spert}

// ParseFormat validates a format tag. It must be called before any document
// is parsed.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Spert, Quickgraph:
		return Format(s), nil
	}
	return "", annotation.Errorf(annotation.ErrUnsupportedFormat, "annotation format must be in %v, got %q", Formats, s)
}

// Normalize translates a single raw document of format f into the
// canonical schema. Each raw document must be normalized exactly once. A
// quickgraph document marked "saved": false is rejected with
// ErrMalformedDocument; DecodeBatch drops those instead.
func Normalize(data json.RawMessage, f Format) (annotation.RawDocument, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return annotation.RawDocument{}, err
	}

	switch f {
	case Quickgraph:
		var qd QuickgraphDocument
		if err := json.Unmarshal(data, &qd); err != nil {
			return annotation.RawDocument{}, malformed(err)
		}
		if qd.Saved != nil && !*qd.Saved {
			return annotation.RawDocument{}, annotation.Errorf(annotation.ErrMalformedDocument, "quickgraph document is not saved")
		}
		return NormalizeQuickgraph(qd)
	default:
		var sd SpertDocument
		if err := json.Unmarshal(data, &sd); err != nil {
			return annotation.RawDocument{}, malformed(err)
		}
		return NormalizeSpert(sd), nil
	}
}

// DecodeBatch reads a whole annotation file of format f and returns its
// documents in the canonical schema, in file order.
func DecodeBatch(r io.Reader, f Format, logger *slog.Logger) ([]annotation.RawDocument, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if f == Quickgraph {
		docs, err := DecodeQuickgraphBatch(data, logger)
		if err != nil {
			return nil, err
		}

		raws := make([]annotation.RawDocument, 0, len(docs))
		for i, qd := range docs {
			raw, err := NormalizeQuickgraph(qd)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i, err)
			}
			raws = append(raws, raw)
		}
		return raws, nil
	}

	var docs []SpertDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, malformed(err)
	}

	raws := make([]annotation.RawDocument, 0, len(docs))
	for _, sd := range docs {
		raws = append(raws, NormalizeSpert(sd))
	}
	return raws, nil
}

func malformed(err error) error {
	return annotation.Errorf(annotation.ErrMalformedDocument, "%v", err)
}

// isObject reports whether data holds a JSON object rather than a list.
func isObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
