// Package inspect is an interactive prompt over a loaded dataset: browse
// documents, look up entity labels, and relabel or drop entity classes.
package inspect

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/render"
	"github.com/revelaction/puggle/stat"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

type command struct {
	name  string
	usage string
	desc  string
}

var commands = []command{
	{"doc", "doc <n>", "show document n"},
	{"label", "label <name>", "show the documents with a mention labelled name"},
	{"stats", "stats", "show dataset statistics"},
	{"relabel", "relabel <from> <to>", "rename an entity class"},
	{"drop", "drop <label>", "remove an entity class and its relations"},
	{"help", "help", "list the commands"},
	{"quit", "quit", "leave"},
}

type Handler struct {
	Dataset  *corpus.Dataset
	Renderer *render.TextRenderer
}

func NewHandler(ds *corpus.Dataset, r *render.TextRenderer) *Handler {
	return &Handler{
		Dataset:  ds,
		Renderer: r,
	}
}

func (h *Handler) Run() error {

	fmt.Println("🔑 Ctrl+F: next Format, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🔖 ", h.completer(),
			prompt.OptionTitle("puggle inspect"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.nextFormat()
					fmt.Println("Format set to: " + h.Renderer.Format)
				}}),
		)

		history = append(history, in)

		out, err := h.Exec(in)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Printf("❌ %s\n", err)
			continue
		}

		fmt.Print(out)
	}
}

// Exec evaluates one prompt line and returns what it prints. Relabel and
// drop modify the dataset in place.
func (h *Handler) Exec(line string) (string, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	h.Renderer.W = &buf

	name, args := tokens[0], tokens[1:]
	switch name {
	case "quit", "exit":
		return "", ErrQuit

	case "help":
		for _, c := range commands {
			fmt.Fprintf(&buf, "%-22s %s\n", c.usage, c.desc)
		}

	case "doc":
		if len(args) != 1 {
			return "", errors.New("usage: doc <n>")
		}
		idx, err := strconv.Atoi(args[0])
		if err != nil || idx < 0 || idx >= h.Dataset.Len() {
			return "", fmt.Errorf("no document %s, the dataset has %d", args[0], h.Dataset.Len())
		}
		h.Renderer.Document(idx, h.Dataset.Documents[idx])

	case "label":
		if len(args) != 1 {
			return "", errors.New("usage: label <name>")
		}
		found := 0
		for i, d := range h.Dataset.Documents {
			if hasLabel(d, args[0]) {
				h.Renderer.Document(i, d)
				found++
			}
		}
		if found == 0 {
			return "", fmt.Errorf("no mention is labelled %s", args[0])
		}

	case "stats":
		h.Renderer.Stats(stat.Dataset(h.Dataset))

	case "relabel":
		if len(args) != 2 {
			return "", errors.New("usage: relabel <from> <to>")
		}
		n := h.Dataset.ConvertEntityClass(args[0], args[1])
		fmt.Fprintf(&buf, "relabelled %d mentions from %s to %s\n", n, args[0], args[1])

	case "drop":
		if len(args) != 1 {
			return "", errors.New("usage: drop <label>")
		}
		n := h.Dataset.DropEntityClass(args[0])
		fmt.Fprintf(&buf, "dropped %d mentions labelled %s\n", n, args[0])

	default:
		return "", fmt.Errorf("unknown command %s, try help", name)
	}

	return buf.String(), nil
}

func (h *Handler) nextFormat() {
	formats := render.SupportedFormats()
	for i, f := range formats {
		if f == h.Renderer.Format {
			h.Renderer.Format = formats[(i+1)%len(formats)]
			return
		}
	}
	h.Renderer.Format = formats[0]
}

func hasLabel(d *annotation.Document, label string) bool {
	if d.Annotation == nil {
		return false
	}
	for _, m := range d.Annotation.Mentions {
		if m.Label == label {
			return true
		}
	}
	return false
}

// Labels returns the entity labels of the dataset in order of appearance.
func (h *Handler) Labels() []string {
	seen := map[string]bool{}
	var labels []string
	for _, d := range h.Dataset.Documents {
		if d.Annotation == nil {
			continue
		}
		for _, m := range d.Annotation.Mentions {
			if !seen[m.Label] {
				seen[m.Label] = true
				labels = append(labels, m.Label)
			}
		}
	}
	return labels
}

func (h *Handler) completer() func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {
		return h.suggest(in.TextBeforeCursor())
	}
}

func (h *Handler) suggest(befCursor string) []prompt.Suggest {
	s := []prompt.Suggest{}

	// Only one character in line
	if befCursor == "" {
		return s
	}

	tokens := strings.Split(befCursor, " ")

	if len(tokens) == 1 {
		for _, c := range commands {
			if strings.HasPrefix(c.name, tokens[0]) {
				s = append(s, prompt.Suggest{Text: c.name, Description: c.desc})
			}
		}
		return s
	}

	// label, relabel and drop take an entity label as first argument
	switch tokens[0] {
	case "label", "relabel", "drop":
	default:
		return s
	}

	if len(tokens) != 2 {
		return s
	}

	for _, l := range h.Labels() {
		if strings.HasPrefix(l, tokens[1]) {
			s = append(s, prompt.Suggest{Text: l, Description: "🔖 entity"})
		}
	}

	return s
}
