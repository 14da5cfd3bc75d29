package translate

import (
	"context"

	"github.com/prasdika/tabtrans/internal/envelope"
	"github.com/prasdika/tabtrans/internal/table"
	"github.com/prasdika/tabtrans/pkg/log"
)

// DefaultCheckpointEvery is how many fresh translations accumulate
// between progress callbacks.
const DefaultCheckpointEvery = 10

// TranslationMemory is an optional durable memo shared across runs.
// Lookups happen before the API is called, so a re-run after an
// interruption does not re-pay for values it already translated.
type TranslationMemory interface {
	Get(ctx context.Context, source string) (string, bool, error)
	Put(ctx context.Context, source, translated string) error
}

// MemoBuilder turns a sequence of distinct source values into a
// source-to-translation map, calling the translation capability at most
// once per distinct value.
type MemoBuilder struct {
	translator      Translator
	limiter         Limiter
	memory          TranslationMemory
	checkpointEvery int
}

// MemoOption configures a MemoBuilder.
type MemoOption func(*MemoBuilder)

// WithMemory attaches a durable cross-run translation memory.
func WithMemory(memory TranslationMemory) MemoOption {
	return func(b *MemoBuilder) {
		b.memory = memory
	}
}

// WithCheckpointEvery overrides the progress callback cadence.
func WithCheckpointEvery(n int) MemoOption {
	return func(b *MemoBuilder) {
		if n > 0 {
			b.checkpointEvery = n
		}
	}
}

// NewMemoBuilder creates a memo builder over the given translation
// capability and rate limiter.
func NewMemoBuilder(translator Translator, limiter Limiter, opts ...MemoOption) *MemoBuilder {
	b := &MemoBuilder{
		translator:      translator,
		limiter:         limiter,
		checkpointEvery: DefaultCheckpointEvery,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build iterates values in order and produces the translation map.
// Missing values and values already memoized are skipped, so the
// capability is invoked at most once per distinct value. A failed call
// leaves its value absent from the map and the batch continues; callers
// must fall back to the original value for absent keys. After every
// checkpointEvery-th insertion, onProgress receives a snapshot of the
// map so partial work can be persisted. Build only fails when the
// context is cancelled.
func (b *MemoBuilder) Build(
	ctx context.Context,
	values []table.Value,
	onProgress func(memo map[string]string),
) (map[string]string, error) {
	memo := make(map[string]string)

	for _, v := range values {
		if err := ctx.Err(); err != nil {
			return memo, err
		}
		if v.IsMissing() {
			continue
		}
		// values is expected pre-deduplicated, but the check keeps the
		// at-most-once guarantee when it is not.
		if _, ok := memo[v.String]; ok {
			continue
		}

		if translated, ok := b.lookupMemory(ctx, v.String); ok {
			memo[v.String] = translated
			b.notify(len(memo), memo, onProgress)
			continue
		}

		wrapped := envelope.Encode(v)
		response, err := b.translator.Translate(ctx, wrapped.String)
		if err != nil {
			log.Error("Failed to translate value %q: %v", v.String, err)
			if waitErr := b.limiter.Wait(ctx); waitErr != nil {
				return memo, waitErr
			}
			continue
		}

		translated := envelope.Decode(table.NewValue(response))
		memo[v.String] = translated.String
		b.storeMemory(ctx, v.String, translated.String)
		b.notify(len(memo), memo, onProgress)

		if err := b.limiter.Wait(ctx); err != nil {
			return memo, err
		}
	}

	return memo, nil
}

func (b *MemoBuilder) notify(inserted int, memo map[string]string, onProgress func(map[string]string)) {
	if onProgress == nil || inserted%b.checkpointEvery != 0 {
		return
	}
	snapshot := make(map[string]string, len(memo))
	for k, v := range memo {
		snapshot[k] = v
	}
	onProgress(snapshot)
}

func (b *MemoBuilder) lookupMemory(ctx context.Context, source string) (string, bool) {
	if b.memory == nil {
		return "", false
	}
	translated, ok, err := b.memory.Get(ctx, source)
	if err != nil {
		log.Warn("Translation memory lookup failed for %q: %v", source, err)
		return "", false
	}
	return translated, ok
}

func (b *MemoBuilder) storeMemory(ctx context.Context, source, translated string) {
	if b.memory == nil {
		return
	}
	if err := b.memory.Put(ctx, source, translated); err != nil {
		log.Warn("Translation memory store failed for %q: %v", source, err)
	}
}
