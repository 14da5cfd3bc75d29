package translate

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/prasdika/tabtrans/pkg/log"
)

// breakerTranslator wraps a provider with a circuit breaker so that a
// dead or rate-limit-banned API fails fast instead of burning the fixed
// delay on every remaining distinct value. Per-value failures are still
// handled by the memo builder; the breaker only short-circuits sustained
// failure streaks.
type breakerTranslator struct {
	inner Translator
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps a translator with a circuit breaker that opens after
// five consecutive failures and probes again after thirty seconds.
func WithBreaker(inner Translator) Translator {
	settings := gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Translation circuit %s changed state: %s -> %s", name, from, to)
		},
	}
	return &breakerTranslator{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

func (t *breakerTranslator) Translate(ctx context.Context, text string) (string, error) {
	ret, err := t.cb.Execute(func() (interface{}, error) {
		return t.inner.Translate(ctx, text)
	})
	if err != nil {
		return "", err
	}
	translation, ok := ret.(string)
	if !ok {
		return "", fmt.Errorf("unexpected breaker result type %T", ret)
	}
	return translation, nil
}

func (t *breakerTranslator) Name() string {
	return t.inner.Name()
}
