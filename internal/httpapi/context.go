package httpapi

import (
	"context"
)

// serverBaseCtx is a process-level context that can be canceled on shutdown.
// Defaults to Background if not set.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContext derives a context from req that is additionally canceled when
// base is done, so a process shutdown stops in-flight generations. The
// returned cancel must be called when the handler ends to release the
// watcher goroutine.
func joinContext(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(req)
	go func() {
		select {
		case <-base.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
