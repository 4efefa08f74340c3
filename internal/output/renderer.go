package output

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Gino-Tonic/LogPeek/internal/model"
)

// Renderer reports a single match to the console.
type Renderer interface {
	Render(m model.Match) error
}

// New returns the renderer for format ("text" or "json").
func New(format string, logger *slog.Logger, w io.Writer, showSource bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextRenderer(logger, showSource), nil
	case "json":
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}

// Report renders every match, or logs a notice when there are none.
func Report(r Renderer, logger *slog.Logger, matches []model.Match) error {
	if len(matches) == 0 {
		logger.Info("No matches found.")
		return nil
	}
	for _, m := range matches {
		if err := r.Render(m); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Text Renderer (log lines)
// ---------------------------------------------------------------------------

// TextRenderer logs each match at info level.
type TextRenderer struct {
	log        *slog.Logger
	showSource bool
}

// NewTextRenderer returns a Renderer that logs "Match found: <line>".
// With showSource set the line is prefixed by its file and line number.
func NewTextRenderer(logger *slog.Logger, showSource bool) *TextRenderer {
	return &TextRenderer{log: logger, showSource: showSource}
}

func (r *TextRenderer) Render(m model.Match) error {
	if r.showSource {
		r.log.Info(fmt.Sprintf("Match found: %s:%d: %s", m.Source, m.LineNumber, m.LogLine))
		return nil
	}
	r.log.Info("Match found: " + m.LogLine)
	return nil
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each match as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONRenderer{enc: enc}
}

func (r *JSONRenderer) Render(m model.Match) error {
	return r.enc.Encode(m)
}
