package provider

import "context"

// DefaultStaticReply is returned by a Static provider with no configured reply.
const DefaultStaticReply = "Static review provider: no model is configured, so this code was not reviewed."

// Static returns the same reply for every request. It exists for local
// development of the editor without model credentials.
type Static struct {
	reply string
}

// NewStatic creates a Static provider.
func NewStatic(reply string) *Static {
	if reply == "" {
		reply = DefaultStaticReply
	}
	return &Static{reply: reply}
}

func (s *Static) Name() string { return "static" }

func (s *Static) Review(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Provider: s.Name(), Err: err}
	}
	return s.reply, nil
}
