package common

import (
	"context"
	"fmt"

	"gitlab.com/shar-workflow/iflowscan/cli/flag"
	"gitlab.com/shar-workflow/iflowscan/cli/output"
	"gitlab.com/shar-workflow/iflowscan/common/expression"
	"gitlab.com/shar-workflow/iflowscan/internal/batch"
	"gitlab.com/shar-workflow/iflowscan/internal/report"
	"gitlab.com/shar-workflow/iflowscan/model"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

// RunBatch extracts the artifacts named by ids from src and prints the results.
// Successful artifacts are appended to reportFile unless it is empty.
// The --where filter only narrows the printed records.
func RunBatch(ctx context.Context, src batch.Source, ids []string, reportFile string) error {
	if len(ids) == 0 {
		return fmt.Errorf("run batch: %w", errors2.ErrNoIflows)
	}
	var filter *expression.RecordFilter
	if flag.Value.Where != "" {
		f, err := expression.NewRecordFilter(flag.Value.Where)
		if err != nil {
			return fmt.Errorf("run batch: %w", err)
		}
		filter = f
	}

	opts := []batch.Option{}
	if flag.Value.Concurrency > 0 {
		opts = append(opts, batch.WithConcurrency(flag.Value.Concurrency))
	}
	res := batch.NewRunner(src, opts...).Run(ctx, ids)

	written := ""
	if reportFile != "" && len(res.Succeeded) > 0 {
		if _, err := report.WriteWorkbook(reportFile, res.Succeeded); err != nil {
			return fmt.Errorf("run batch: %w", err)
		}
		written = reportFile
	}

	for _, a := range res.Succeeded {
		shown := a
		if filter != nil {
			recs, err := filter.Apply(ctx, a.IflowName, a.Records)
			if err != nil {
				return fmt.Errorf("run batch: %w", err)
			}
			shown = &model.ArtifactResult{
				IflowName:      a.IflowName,
				FileName:       a.FileName,
				Records:        recs,
				DecodeFailures: a.DecodeFailures,
			}
		}
		output.Current.OutputArtifact(shown)
	}
	output.Current.OutputBatch(res, written)

	if len(res.Succeeded) == 0 {
		return fmt.Errorf("run batch: all %d artifacts failed", len(res.Failed))
	}
	return nil
}
