package tui

// FocusArea identifies which pane receives key input.
type FocusArea int

const (
	FocusEditor FocusArea = iota
	FocusReview
)

// String returns the lowercase name of the focus area.
func (f FocusArea) String() string {
	switch f {
	case FocusEditor:
		return "edit"
	case FocusReview:
		return "preview"
	default:
		return "unknown"
	}
}
