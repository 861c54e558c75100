package logging

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	reviewSeqKey contextKey = "review_seq"
)

// WithRequestID adds an HTTP request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithReviewSeq adds the editor session's review sequence number to the context.
func WithReviewSeq(ctx context.Context, seq uint64) context.Context {
	return context.WithValue(ctx, reviewSeqKey, seq)
}

// GetRequestID retrieves the request ID from the context.
// Returns empty string if not present.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetReviewSeq retrieves the review sequence number from the context.
// The second return value reports whether one was set.
func GetReviewSeq(ctx context.Context) (uint64, bool) {
	seq, ok := ctx.Value(reviewSeqKey).(uint64)
	return seq, ok
}
