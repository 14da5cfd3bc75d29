package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/prasdika/tabtrans/internal/table"
	"github.com/prasdika/tabtrans/internal/translate"
)

// stubTranslator answers from a fixed mapping over the enveloped
// payload.
type stubTranslator struct {
	translations map[string]string
	calls        int
}

func (s *stubTranslator) Translate(_ context.Context, text string) (string, error) {
	s.calls++
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "<text>"), "</text>")
	translated, ok := s.translations[inner]
	if !ok {
		return "", errors.New("no translation for " + inner)
	}
	return "<text>" + translated + "</text>", nil
}

func (s *stubTranslator) Name() string { return "stub" }

func newTestPipeline(stub *stubTranslator, opts ...translate.MemoOption) *Pipeline {
	memo := translate.NewMemoBuilder(stub, translate.NopLimiter{}, opts...)
	return NewPipeline(memo, language.English)
}

func greetingTable() *table.Table {
	return &table.Table{
		Columns: []string{"greeting"},
		Rows: []table.Row{
			{"greeting": table.NewValue("Hello")},
			{"greeting": table.NewValue("World")},
			{"greeting": table.NewValue("Hello")},
			{"greeting": table.Missing()},
		},
	}
}

func TestPipeline_TranslatesColumnWithMemoization(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{
		"Hello": "Halo",
		"World": "Dunia",
	}}
	p := newTestPipeline(stub)

	dir := t.TempDir()
	rec := &recordingWriter{}
	writer := NewCheckpointWriter(rec, filepath.Join(dir, "out.xlsx"))

	out, translated, err := p.Process(context.Background(), greetingTable(), []string{"greeting"}, writer)
	require.NoError(t, err)

	// four rows, two distinct values, exactly two API calls
	assert.Equal(t, 2, stub.calls)
	assert.Equal(t, 2, translated)

	assert.Equal(t, "Halo", out.Rows[0]["greeting"].String)
	assert.Equal(t, "Dunia", out.Rows[1]["greeting"].String)
	assert.Equal(t, "Halo", out.Rows[2]["greeting"].String)
	assert.True(t, out.Rows[3]["greeting"].IsMissing())

	_, statErr := os.Stat(writer.FinalPath())
	require.NoError(t, statErr)
}

func TestPipeline_InputTableNotMutated(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{
		"Hello": "Halo",
		"World": "Dunia",
	}}
	p := newTestPipeline(stub)

	in := greetingTable()
	writer := NewCheckpointWriter(&recordingWriter{}, filepath.Join(t.TempDir(), "out.xlsx"))

	_, _, err := p.Process(context.Background(), in, []string{"greeting"}, writer)
	require.NoError(t, err)

	assert.Equal(t, "Hello", in.Rows[0]["greeting"].String)
}

func TestPipeline_AbsentColumnSkipped(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{"Hello": "Halo", "World": "Dunia"}}
	p := newTestPipeline(stub)

	writer := NewCheckpointWriter(&recordingWriter{}, filepath.Join(t.TempDir(), "out.xlsx"))
	_, _, err := p.Process(context.Background(), greetingTable(), []string{"no_such_column", "greeting"}, writer)
	require.NoError(t, err)

	// only the real column's values reached the API
	assert.Equal(t, 2, stub.calls)
}

func TestPipeline_FailedValueKeepsOriginalEverywhere(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{"World": "Dunia"}}
	p := newTestPipeline(stub)

	writer := NewCheckpointWriter(&recordingWriter{}, filepath.Join(t.TempDir(), "out.xlsx"))
	out, translated, err := p.Process(context.Background(), greetingTable(), []string{"greeting"}, writer)
	require.NoError(t, err)

	assert.Equal(t, 1, translated)
	assert.Equal(t, "Hello", out.Rows[0]["greeting"].String)
	assert.Equal(t, "Dunia", out.Rows[1]["greeting"].String)
	assert.Equal(t, "Hello", out.Rows[2]["greeting"].String)
}

func TestPipeline_CheckpointsAreFullTables(t *testing.T) {
	translations := make(map[string]string)
	rows := make([]table.Row, 0)
	for _, r := range []rune("abcdefghijklmnopqrstuvw") {
		text := string(r)
		translations[text] = strings.ToUpper(text)
		rows = append(rows, table.Row{"letter": table.NewValue(text), "note": table.Missing()})
	}
	tbl := &table.Table{Columns: []string{"letter", "note"}, Rows: rows}

	stub := &stubTranslator{translations: translations}
	p := newTestPipeline(stub)

	rec := &recordingWriter{}
	writer := NewCheckpointWriter(rec, filepath.Join(t.TempDir(), "out.xlsx"))

	_, _, err := p.Process(context.Background(), tbl, []string{"letter"}, writer)
	require.NoError(t, err)

	// 23 distinct values: intermediate checkpoints at 10 and 20, then
	// the final write, all through the temp path
	require.Len(t, rec.saves, 3)
	for _, save := range rec.saves {
		assert.Equal(t, writer.TempPath(), save.path)
		assert.Equal(t, tbl.Columns, save.columns)
		assert.Equal(t, len(tbl.Rows), save.rows)
	}
}

func TestPipeline_FinalizeFailureProducesErrorArtifact(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{"Hello": "Halo", "World": "Dunia"}}
	p := newTestPipeline(stub)

	dir := t.TempDir()
	tempPath := filepath.Join(dir, "out_temp.xlsx")
	rec := &recordingWriter{failPaths: map[string]bool{tempPath: true}}
	writer := NewCheckpointWriter(rec, filepath.Join(dir, "out.xlsx"))

	out, _, err := p.Process(context.Background(), greetingTable(), []string{"greeting"}, writer)
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrFileWrite))

	// partial progress survives under the error artifact
	_, statErr := os.Stat(writer.ErrorPath())
	require.NoError(t, statErr)
	assert.Equal(t, "Halo", out.Rows[0]["greeting"].String)
}

func TestPipeline_CancelledContextFailsJobWithArtifact(t *testing.T) {
	stub := &stubTranslator{translations: map[string]string{"Hello": "Halo"}}
	p := newTestPipeline(stub)

	rec := &recordingWriter{}
	writer := NewCheckpointWriter(rec, filepath.Join(t.TempDir(), "out.xlsx"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := p.Process(ctx, greetingTable(), []string{"greeting"}, writer)
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrTranslation))

	_, statErr := os.Stat(writer.ErrorPath())
	require.NoError(t, statErr)
}
