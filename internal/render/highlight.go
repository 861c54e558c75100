package render

import (
	"strings"
)

// HighlightCode tokenizes text with the fixed JavaScript grammar and returns
// it colored for a 256 color terminal. Syntactically invalid input is still
// highlighted on a best effort basis; the result is never empty for a
// non-empty input.
func (a *Adapter) HighlightCode(text string) (out Presentation) {
	if a.plain || text == "" {
		return Presentation(text)
	}

	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Msg("highlighter panicked, showing code verbatim")
			out = Presentation(text)
		}
	}()

	a.mu.Lock()
	defer a.mu.Unlock()

	iterator, err := a.lexer.Tokenise(nil, text)
	if err != nil {
		a.log.Debug().Err(err).Msg("tokenise failed")
		return Presentation(text)
	}

	var b strings.Builder
	if err := a.terminal.Format(&b, a.style, iterator); err != nil {
		a.log.Debug().Err(err).Msg("format failed")
		return Presentation(text)
	}

	return Presentation(b.String())
}
