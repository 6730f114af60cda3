package annotation

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fields holds the structured (non-textual) columns of a document. Values
// are scalars and opaque to the annotation core.
type Fields map[string]any

// Document pairs structured fields with an optional Annotation of its text.
type Document struct {
	Fields     Fields
	Annotation *Annotation

	// DocumentIndex is set on documents derived from another one (sentence
	// splitting) and points at the parent's position in its dataset.
	DocumentIndex *int
}

type documentJSON struct {
	Fields        Fields      `json:"fields"`
	Annotations   *Annotation `json:"annotations"`
	DocumentIndex *int        `json:"document_index,omitempty"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentJSON{
		Fields:        d.Fields,
		Annotations:   d.Annotation,
		DocumentIndex: d.DocumentIndex,
	})
}

type rawDocumentJSON struct {
	Fields        Fields       `json:"fields"`
	Annotations   *RawDocument `json:"annotations"`
	DocumentIndex *int         `json:"document_index"`
}

// DecodeDocument reads a document written by Document.MarshalJSON,
// validating its annotation against limits.
func DecodeDocument(data []byte, limits Limits) (*Document, error) {
	var aux rawDocumentJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	doc := &Document{Fields: aux.Fields, DocumentIndex: aux.DocumentIndex}
	if aux.Annotations != nil {
		aux.Annotations.Flatten()
		a, err := Parse(*aux.Annotations, limits)
		if err != nil {
			return nil, err
		}
		doc.Annotation = a
	}
	return doc, nil
}

// Fingerprint returns the digest of the canonical JSON form. Two
// documents with the same fields and annotation share a fingerprint.
func (d *Document) Fingerprint() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return Fingerprint(data), nil
}

// Fingerprint is the hex BLAKE3 digest of data.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Clone returns a deep copy of the document. Mentions and relations of the
// copy are new instances.
func (d *Document) Clone() *Document {
	c := &Document{}
	if d.Fields != nil {
		c.Fields = make(Fields, len(d.Fields))
		for k, v := range d.Fields {
			c.Fields[k] = v
		}
	}
	if d.DocumentIndex != nil {
		idx := *d.DocumentIndex
		c.DocumentIndex = &idx
	}
	if d.Annotation != nil {
		c.Annotation = d.Annotation.Clone()
	}
	return c
}
