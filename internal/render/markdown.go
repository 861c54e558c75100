package render

// RenderReview interprets text as markdown (headings, code fences, emphasis)
// and returns it styled for the terminal. Text without markup comes back as
// the same words in a paragraph; anything the renderer cannot handle is shown
// verbatim.
func (a *Adapter) RenderReview(text string) (out Presentation) {
	if text == "" {
		return ""
	}

	// glamour's renderer keeps block state between nodes; serialize use.
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.md == nil {
		return Presentation(text)
	}

	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Msg("markdown renderer panicked, showing review verbatim")
			out = Presentation(text)
		}
	}()

	rendered, err := a.md.Render(text)
	if err != nil {
		a.log.Debug().Err(err).Msg("render review failed")
		return Presentation(text)
	}

	return Presentation(rendered)
}
