package output

import (
	"io"
	"os"

	"gitlab.com/shar-workflow/iflowscan/model"
)

// Method represents the output method
type Method interface {
	// OutputArtifact prints the header records of one artifact.
	OutputArtifact(res *model.ArtifactResult)
	// OutputBatch prints the outcome of a batch run, and the report file if one was written.
	OutputBatch(res *model.BatchResult, reportFile string)
	// OutputResponse prints the reply of an iflowscan server to an extract request.
	OutputResponse(res *model.ExtractResponse)
}

// Current is the currently selected output method.
var Current Method = &Text{}

// Stream contains the output stream.  By default this os.Stdout, however, for testing it can be set to a byte buffer for instance.
var Stream io.Writer = os.Stdout

// ArtifactOutput is the output format for one extracted artifact.
type ArtifactOutput struct {
	Iflow          string                       `json:"iflow"`
	File           string                       `json:"file"`
	Summary        model.Summary                `json:"summary"`
	DecodeFailures int                          `json:"decodeFailures"`
	Records        []model.ResolvedHeaderRecord `json:"records"`
}

// BatchOutput is the output format for a batch run.
type BatchOutput struct {
	Status  string                  `json:"status"`
	RunID   string                  `json:"runId"`
	File    string                  `json:"file,omitempty"`
	Summary model.BatchSummary      `json:"summary"`
	Failed  []model.ArtifactFailure `json:"failed,omitempty"`
}

// NewArtifactOutput builds the output format of an artifact result.
func NewArtifactOutput(res *model.ArtifactResult) ArtifactOutput {
	return ArtifactOutput{
		Iflow:          res.IflowName,
		File:           res.FileName,
		Summary:        model.Summarize(res.Records),
		DecodeFailures: res.DecodeFailures,
		Records:        res.Records,
	}
}

// NewBatchOutput builds the output format of a batch result.
func NewBatchOutput(res *model.BatchResult, reportFile string) BatchOutput {
	return BatchOutput{
		Status:  "completed",
		RunID:   res.RunID,
		File:    reportFile,
		Summary: res.Summary(),
		Failed:  res.Failed,
	}
}
