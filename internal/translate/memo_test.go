package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasdika/tabtrans/internal/table"
)

// stubTranslator answers from a fixed mapping over the enveloped
// payload and records every call.
type stubTranslator struct {
	translations map[string]string
	calls        []string
}

func (s *stubTranslator) Translate(_ context.Context, text string) (string, error) {
	s.calls = append(s.calls, text)
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "<text>"), "</text>")
	translated, ok := s.translations[inner]
	if !ok {
		return "", errors.New("no translation for " + inner)
	}
	return "<text>" + translated + "</text>", nil
}

func (s *stubTranslator) Name() string { return "stub" }

func values(texts ...string) []table.Value {
	ret := make([]table.Value, 0, len(texts))
	for _, t := range texts {
		ret = append(ret, table.NewValue(t))
	}
	return ret
}

func TestMemoBuilder_TranslatesEachDistinctValueOnce(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{
		"Hello": "Halo",
		"World": "Dunia",
	}}
	builder := NewMemoBuilder(stub, NopLimiter{})

	memo, err := builder.Build(context.Background(), values("Hello", "World"), nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Hello": "Halo", "World": "Dunia"}, memo)
	assert.Len(t, stub.calls, 2)
	assert.Equal(t, "<text>Hello</text>", stub.calls[0])
}

func TestMemoBuilder_SkipsMissingValues(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{"Hello": "Halo"}}
	builder := NewMemoBuilder(stub, NopLimiter{})

	input := []table.Value{table.NewValue("Hello"), table.Missing(), table.Missing()}
	memo, err := builder.Build(context.Background(), input, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Hello": "Halo"}, memo)
	assert.Len(t, stub.calls, 1)
}

func TestMemoBuilder_SkipsDuplicatesDefensively(t *testing.T) {
	// The input is expected pre-deduplicated, but the at-most-once
	// guarantee must hold even when it is not.
	stub := &stubTranslator{translations: map[string]string{"Hello": "Halo"}}
	builder := NewMemoBuilder(stub, NopLimiter{})

	memo, err := builder.Build(context.Background(), values("Hello", "Hello", "Hello"), nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Hello": "Halo"}, memo)
	assert.Len(t, stub.calls, 1)
}

func TestMemoBuilder_FailedValueLeftAbsent(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{
		"Hello": "Halo",
		"Bye":   "Dah",
	}}
	builder := NewMemoBuilder(stub, NopLimiter{})

	memo, err := builder.Build(context.Background(), values("Hello", "Unknown", "Bye"), nil)
	require.NoError(t, err)

	// the failed value stays absent so callers fall back to the original
	assert.Equal(t, map[string]string{"Hello": "Halo", "Bye": "Dah"}, memo)
	// the failing call still happened, and the batch carried on
	assert.Len(t, stub.calls, 3)
}

func TestMemoBuilder_CheckpointCadence(t *testing.T) {
	translations := make(map[string]string)
	var input []table.Value
	for _, text := range []string{
		"a", "b", "c", "d", "e", "f", "g", "h", "i", "j",
		"k", "l", "m", "n", "o", "p", "q", "r", "s", "t",
		"u", "v", "w",
	} {
		translations[text] = strings.ToUpper(text)
		input = append(input, table.NewValue(text))
	}
	stub := &stubTranslator{translations: translations}
	builder := NewMemoBuilder(stub, NopLimiter{})

	var snapshots []map[string]string
	_, err := builder.Build(context.Background(), input, func(memo map[string]string) {
		snapshots = append(snapshots, memo)
	})
	require.NoError(t, err)

	// 23 insertions with the default cadence of 10: snapshots at 10 and 20
	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[0], 10)
	assert.Len(t, snapshots[1], 20)
}

func TestMemoBuilder_CustomCheckpointCadence(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{
		"a": "A", "b": "B", "c": "C", "d": "D",
	}}
	builder := NewMemoBuilder(stub, NopLimiter{}, WithCheckpointEvery(2))

	var calls int
	_, err := builder.Build(context.Background(), values("a", "b", "c", "d"), func(map[string]string) {
		calls++
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemoBuilder_SnapshotIsACopy(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{"a": "A", "b": "B"}}
	builder := NewMemoBuilder(stub, NopLimiter{}, WithCheckpointEvery(1))

	var snapshots []map[string]string
	memo, err := builder.Build(context.Background(), values("a", "b"), func(m map[string]string) {
		snapshots = append(snapshots, m)
	})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	// mutating a snapshot must not leak into the final memo
	snapshots[0]["a"] = "mutated"
	assert.Equal(t, "A", memo["a"])
	assert.Len(t, snapshots[0], 1)
}

func TestMemoBuilder_StopsOnCancelledContext(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{"a": "A"}}
	builder := NewMemoBuilder(stub, NopLimiter{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	memo, err := builder.Build(ctx, values("a", "b"), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, memo)
	assert.Empty(t, stub.calls)
}

// fakeMemory is an in-memory TranslationMemory.
type fakeMemory struct {
	entries map[string]string
	puts    int
}

func (m *fakeMemory) Get(_ context.Context, source string) (string, bool, error) {
	translated, ok := m.entries[source]
	return translated, ok, nil
}

func (m *fakeMemory) Put(_ context.Context, source, translated string) error {
	m.entries[source] = translated
	m.puts++
	return nil
}

func TestMemoBuilder_MemoryHitSkipsAPI(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{"World": "Dunia"}}
	memory := &fakeMemory{entries: map[string]string{"Hello": "Halo"}}
	builder := NewMemoBuilder(stub, NopLimiter{}, WithMemory(memory))

	memo, err := builder.Build(context.Background(), values("Hello", "World"), nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Hello": "Halo", "World": "Dunia"}, memo)
	// only the cache miss reached the API
	require.Len(t, stub.calls, 1)
	assert.Equal(t, "<text>World</text>", stub.calls[0])
	// and the fresh translation went back into the memory
	assert.Equal(t, "Dunia", memory.entries["World"])
	assert.Equal(t, 1, memory.puts)
}
