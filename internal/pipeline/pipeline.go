// Package pipeline orchestrates the per-table translation flow:
// distinct-value extraction, memoized translation, map application and
// checkpointed persistence.
package pipeline

import (
	"context"

	"golang.org/x/text/language"

	"github.com/prasdika/tabtrans/internal/table"
	"github.com/prasdika/tabtrans/internal/translate"
	"github.com/prasdika/tabtrans/pkg/log"
)

// Pipeline translates selected columns of a table. The input table is
// never mutated; processing happens on a private copy.
type Pipeline struct {
	memo           *translate.MemoBuilder
	sourceLanguage language.Tag
}

// NewPipeline creates a column pipeline over a memo builder. The source
// language is used only for the per-column detection advisory.
func NewPipeline(memo *translate.MemoBuilder, sourceLanguage language.Tag) *Pipeline {
	return &Pipeline{
		memo:           memo,
		sourceLanguage: sourceLanguage,
	}
}

// Process translates each listed column that exists in the table and
// returns the fully processed copy. Columns the table does not carry are
// skipped. Intermediate checkpoints are emitted while each column's memo
// is built; the finished table is finalized through the writer. On an
// unrecoverable error the partial result is saved as an error artifact
// and the error is returned for this job only.
//
// The returned count is the number of distinct values translated across
// all columns.
func (p *Pipeline) Process(
	ctx context.Context,
	tbl *table.Table,
	columns []string,
	writer *CheckpointWriter,
) (*table.Table, int, error) {
	out := tbl.Clone()
	translated := 0

	for _, column := range columns {
		if !out.HasColumn(column) {
			log.Warn("Column %s not present in table, skipping", column)
			continue
		}

		distinct := out.DistinctValues(column)
		log.Info("Translating column %s: %d distinct values out of %d rows", column, len(distinct), len(out.Rows))

		if detected := translate.DetectLanguage(distinct); detected != language.Und && detected != p.sourceLanguage {
			log.Warn("Column %s looks like %s, configured source language is %s", column, detected, p.sourceLanguage)
		}

		memo, err := p.memo.Build(ctx, distinct, func(partial map[string]string) {
			snapshot := out.Clone()
			snapshot.ApplyColumnMap(column, partial)
			writer.Checkpoint(snapshot)
		})

		// A partially built memo is still valid progress: apply it
		// before deciding how to finish.
		out.ApplyColumnMap(column, memo)
		translated += len(memo)

		if err != nil {
			writer.Fail(out)
			return out, translated, WrapError(err, ErrTranslation, "translation aborted for column "+column)
		}

		log.Info("Translated %d distinct values in column %s", len(memo), column)
	}

	if err := writer.Finalize(out); err != nil {
		writer.Fail(out)
		return out, translated, err
	}
	log.Info("Saved final translation to %s", writer.FinalPath())

	return out, translated, nil
}
