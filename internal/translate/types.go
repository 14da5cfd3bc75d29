package translate

import "context"

// Translator is the external translation capability: one prompt in, one
// translated text out. Calls are fallible and latency-bearing; callers
// must treat every call as potentially failing.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)

	// Name returns the provider name for logging.
	Name() string
}

// Limiter paces calls against the external API. The default is a fixed
// post-call delay; it can be replaced without touching the pipeline.
type Limiter interface {
	Wait(ctx context.Context) error
}
