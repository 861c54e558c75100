// Package session holds the editor's state: the code buffer being edited and
// the latest review of it.
//
// Review requests run asynchronously and may overlap. Each request takes the
// next sequence number; a result is applied only if no newer request has
// been issued since, so a slow stale answer can never overwrite a newer one.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/codereview/internal/core/logging"
	"github.com/hay-kot/codereview/internal/render"
	"github.com/hay-kot/codereview/internal/reviewclient"
)

// DefaultCode is the buffer a new session starts with.
const DefaultCode = "function sum() {\n  return 1 + 1;\n}"

// FetchErrorText replaces the review whenever a request fails.
const FetchErrorText = "Error: Could not fetch review."

// Submitter sends code to the review service.
type Submitter interface {
	Submit(ctx context.Context, code string) reviewclient.Response
}

// Renderer produces the presentations shown for code and reviews.
type Renderer interface {
	HighlightCode(text string) render.Presentation
	RenderReview(text string) render.Presentation
}

// Result is delivered once a review request finishes.
type Result struct {
	Seq      uint64
	Code     string // snapshot that was submitted
	Response reviewclient.Response
	// Applied is false when a newer request had already been issued and
	// this result was discarded.
	Applied bool
}

// Session is the editor state. It is safe for concurrent use.
type Session struct {
	submitter Submitter
	renderer  Renderer
	log       zerolog.Logger

	mu          sync.Mutex
	code        string
	highlighted render.Presentation
	review      string
	rendered    render.Presentation
	seq         uint64 // highest sequence number issued
	inFlight    int
}

// New creates a Session holding DefaultCode and an empty review.
func New(submitter Submitter, renderer Renderer) *Session {
	s := &Session{
		submitter: submitter,
		renderer:  renderer,
		log:       logging.Component("session"),
	}
	s.SetCode(DefaultCode)
	return s
}

// SetCode replaces the code buffer unconditionally and re-highlights it.
func (s *Session) SetCode(text string) render.Presentation {
	highlighted := s.renderer.HighlightCode(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = text
	s.highlighted = highlighted
	return highlighted
}

// RequestReview snapshots the code buffer and submits it in the background.
// The returned channel receives exactly one Result and is then closed.
// Calling again before an earlier request finishes is allowed.
func (s *Session) RequestReview(ctx context.Context) <-chan Result {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	code := s.code
	s.inFlight++
	s.mu.Unlock()

	ctx = logging.WithReviewSeq(ctx, seq)
	s.log.Debug().Ctx(ctx).Int("code_bytes", len(code)).Msg("review requested")

	out := make(chan Result, 1)
	go func() {
		defer close(out)
		resp := s.submitter.Submit(ctx, code)
		out <- s.apply(ctx, seq, code, resp)
	}()
	return out
}

// apply stores resp as the current review when seq is the newest request.
func (s *Session) apply(ctx context.Context, seq uint64, code string, resp reviewclient.Response) Result {
	text := resp.Text
	if !resp.OK() {
		s.log.Error().Ctx(ctx).Err(resp.Err).Msg("review request failed")
		text = FetchErrorText
	}

	res := Result{Seq: seq, Code: code, Response: resp}

	s.mu.Lock()
	s.inFlight--
	if seq != s.seq {
		latest := s.seq
		s.mu.Unlock()
		s.log.Debug().Ctx(ctx).Uint64("latest_seq", latest).Msg("discarding stale review")
		return res
	}
	s.mu.Unlock()

	// Rendering happens outside the lock; re-check afterwards so a request
	// issued meanwhile still wins.
	rendered := s.renderer.RenderReview(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return res
	}
	s.review = text
	s.rendered = rendered
	res.Applied = true
	return res
}

// Code returns the current code buffer.
func (s *Session) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// HighlightedCode returns the presentation produced by the last SetCode.
func (s *Session) HighlightedCode() render.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlighted
}

// Review returns the current review text, empty until a request completes.
func (s *Session) Review() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.review
}

// RenderedReview returns the presentation of the current review.
func (s *Session) RenderedReview() render.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered
}

// Rerender rebuilds both presentations, for example after the renderer's
// width changed.
func (s *Session) Rerender() {
	s.mu.Lock()
	code, review := s.code, s.review
	s.mu.Unlock()

	highlighted := s.renderer.HighlightCode(code)
	rendered := s.renderer.RenderReview(review)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == code {
		s.highlighted = highlighted
	}
	if s.review == review {
		s.rendered = rendered
	}
}

// Pending returns the number of review requests that have not finished.
// It is diagnostic only; the editor's contract has no loading state.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
