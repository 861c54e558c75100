// Package render turns editor text into terminal presentations: syntax
// highlighted source for the code pane and styled markdown for reviews.
//
// Both mappings are total. Any failure inside the underlying libraries
// degrades to the verbatim input rather than an error.
package render

import (
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/rs/zerolog"

	"github.com/hay-kot/codereview/internal/core/logging"
	"github.com/hay-kot/codereview/internal/core/styles"
)

// Language is the single grammar used for code highlighting.
const Language = "javascript"

const defaultWidth = 80

// Presentation is text styled for display in a terminal.
type Presentation string

// String implements fmt.Stringer.
func (p Presentation) String() string { return string(p) }

// Options configures an Adapter.
type Options struct {
	// Width is the word wrap width for rendered reviews. Zero uses 80.
	Width int
	// Plain disables all styling; both mappings return their input unchanged.
	Plain bool
	// ChromaStyle overrides the highlighting style. Empty uses the active theme.
	ChromaStyle string
	// Markdown overrides the review style. Nil uses the active theme.
	Markdown *ansi.StyleConfig
}

// Adapter is the rendering front end shared by the editor and the CLI.
type Adapter struct {
	mu sync.Mutex

	plain    bool
	width    int
	mdStyle  ansi.StyleConfig
	md       *glamour.TermRenderer
	lexer    chroma.Lexer
	style    *chroma.Style
	terminal chroma.Formatter
	log      zerolog.Logger
}

// New creates an Adapter.
func New(opts Options) *Adapter {
	a := &Adapter{
		plain: opts.Plain,
		width: opts.Width,
		log:   logging.Component("render"),
	}
	if a.width <= 0 {
		a.width = defaultWidth
	}

	lexer := lexers.Get(Language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	a.lexer = chroma.Coalesce(lexer)

	styleName := opts.ChromaStyle
	if styleName == "" {
		styleName = styles.ChromaStyle()
	}
	a.style = chromastyles.Get(styleName)

	a.terminal = formatters.Get("terminal256")
	if a.terminal == nil {
		a.terminal = formatters.Fallback
	}

	if opts.Markdown != nil {
		a.mdStyle = *opts.Markdown
	} else {
		a.mdStyle = styles.GlamourStyle()
	}
	a.md = a.newMarkdownRenderer()

	return a
}

// Width returns the current review wrap width.
func (a *Adapter) Width() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.width
}

// SetWidth changes the review wrap width, rebuilding the markdown renderer
// when it differs from the current one.
func (a *Adapter) SetWidth(width int) {
	if width <= 0 {
		width = defaultWidth
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if width == a.width {
		return
	}
	a.width = width
	a.md = a.newMarkdownRenderer()
}

// newMarkdownRenderer builds a glamour renderer; callers hold a.mu or own a.
// A nil result makes RenderReview fall back to verbatim text.
func (a *Adapter) newMarkdownRenderer() *glamour.TermRenderer {
	if a.plain {
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(a.mdStyle),
		glamour.WithWordWrap(a.width),
	)
	if err != nil {
		a.log.Warn().Err(err).Msg("markdown renderer unavailable, reviews will display verbatim")
		return nil
	}
	return r
}
