package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/stat"
)

// JSONRenderer writes each rendered value as one JSON line.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

type indexedDocument struct {
	Index    int                  `json:"index"`
	Document *annotation.Document `json:"document"`
}

func (r *JSONRenderer) Document(idx int, doc *annotation.Document) {
	r.encode(indexedDocument{Index: idx, Document: doc})
}

func (r *JSONRenderer) Dataset(ds *corpus.Dataset) {
	r.encode(ds)
}

func (r *JSONRenderer) Stats(s stat.Stats) {
	r.encode(s)
}

func (r *JSONRenderer) SplitReport(rep corpus.SplitReport) {
	r.encode(rep)
}

func (r *JSONRenderer) Fields(infos []stat.FieldInfo) {
	if infos == nil {
		infos = []stat.FieldInfo{}
	}
	r.encode(infos)
}

func (r *JSONRenderer) encode(v any) {
	json.NewEncoder(r.W).Encode(v)
}

// compile-time interface check
var _ Renderer = (*JSONRenderer)(nil)
