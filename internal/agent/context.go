package agent

import "context"

type ctxKey int

const threadIDKey ctxKey = 0

// WithThreadID tags a context with the conversation thread identifier so
// downstream components can attribute log events to the right thread.
func WithThreadID(ctx context.Context, threadID string) context.Context {
	return context.WithValue(ctx, threadIDKey, threadID)
}

// ThreadID returns the thread identifier carried by the context, or ""
// when the call is not attached to a conversation.
func ThreadID(ctx context.Context) string {
	id, _ := ctx.Value(threadIDKey).(string)
	return id
}
