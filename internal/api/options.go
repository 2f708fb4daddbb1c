package api

// callOptions carries the three orthogonal per-request opt-outs plus the
// internal retried-once marker.
type callOptions struct {
	skipGlobalLoading bool
	skipGlobalError   bool
	skipAuthRefresh   bool
	retried           bool
}

// Option customises a single outbound call.
type Option func(*callOptions)

// SkipGlobalLoading leaves the busy counter untouched for this call.
func SkipGlobalLoading() Option {
	return func(o *callOptions) { o.skipGlobalLoading = true }
}

// SkipGlobalError suppresses publication to the global error channel,
// used by screens that render inline field errors instead of a toast.
func SkipGlobalError() Option {
	return func(o *callOptions) { o.skipGlobalError = true }
}

// SkipAuthRefresh disables 401-triggered token refresh for this call. The
// refresh call itself uses it to prevent recursion.
func SkipAuthRefresh() Option {
	return func(o *callOptions) { o.skipAuthRefresh = true }
}

func buildOptions(opts []Option) callOptions {
	var o callOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
