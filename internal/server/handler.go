package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hay-kot/codereview/internal/core/logging"
	"github.com/hay-kot/codereview/internal/provider"
	"github.com/hay-kot/codereview/pkg/iojson"
)

// reviewRequest is the body of POST /ai/get-review. Code is kept raw so any
// JSON value can be forwarded.
type reviewRequest struct {
	Code json.RawMessage `json:"code"`
}

// codeText returns the code as the reviewer sees it. A JSON string is
// unquoted; any other value is forwarded as its JSON text.
func (r reviewRequest) codeText() string {
	if len(r.Code) == 0 || string(r.Code) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(r.Code, &s); err == nil {
		return s
	}

	return string(r.Code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, s.cfg.HealthMessage)
}

// handleGetReview forwards the code to the reviewer without validating it. A
// body that is missing or does not decode is forwarded as empty code; how the
// provider treats that decides the outcome.
func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.Ctx(ctx, "server")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			iojson.WriteHTTPError(w, http.StatusRequestEntityTooLarge, "request body too large",
				map[string]any{"limit": tooLarge.Limit})
			return
		}
		log.Debug().Err(err).Msg("review request body did not decode, forwarding empty code")
		req = reviewRequest{}
	}

	code := req.codeText()

	review, err := s.reviewer.Review(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("provider", s.reviewer.Name()).Msg("review provider failed")
		iojson.WriteHTTPError(w, http.StatusInternalServerError, "failed to generate review", failureData(s.reviewer.Name(), err))
		return
	}

	log.Debug().Int("code_bytes", len(code)).Int("review_bytes", len(review)).Msg("review generated")

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, review)
}

// failureData is the client-facing detail of a provider failure. The error
// text stays in the log; only the provider name and upstream status are sent.
func failureData(name string, err error) map[string]any {
	data := map[string]any{"provider": name}

	var pe *provider.Error
	if errors.As(err, &pe) && pe.StatusCode != 0 {
		data["status"] = pe.StatusCode
	}

	return data
}
