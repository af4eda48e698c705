package domain

import "context"

type scoreTraceKey struct{}

// ScoreTrace lets scoring client decorators report back to the caller how a
// response was produced. It is owned by a single Complete call.
type ScoreTrace struct {
	CacheHit bool
}

// WithScoreTrace attaches a fresh ScoreTrace to ctx.
func WithScoreTrace(ctx Context) (Context, *ScoreTrace) {
	t := &ScoreTrace{}
	return context.WithValue(ctx, scoreTraceKey{}, t), t
}

// ScoreTraceFrom returns the ScoreTrace attached to ctx, or nil.
func ScoreTraceFrom(ctx Context) *ScoreTrace {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(scoreTraceKey{}).(*ScoreTrace)
	return t
}
