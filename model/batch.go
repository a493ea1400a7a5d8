package model

// ArtifactResult is the extraction output of one integration flow artifact.
type ArtifactResult struct {
	IflowName string                 `json:"iflowName"`
	FileName  string                 `json:"fileName"`
	Records   []ResolvedHeaderRecord `json:"records"`
	// DecodeFailures counts header tables with content that could not be parsed.
	// Such tables contribute no records.
	DecodeFailures int `json:"decodeFailures"`
}

// ArtifactFailure records why an artifact could not be extracted.
type ArtifactFailure struct {
	Iflow string `json:"iflow"`
	Error string `json:"error"`
}

// BatchSummary counts the artifacts of a batch run.
type BatchSummary struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// BatchResult is the aggregated output of extracting several artifacts.
type BatchResult struct {
	RunID     string            `json:"runId"`
	Succeeded []*ArtifactResult `json:"succeeded"`
	Failed    []ArtifactFailure `json:"failed,omitempty"`
}

// Summary counts the artifacts in the batch.
func (b *BatchResult) Summary() BatchSummary {
	return BatchSummary{
		Total:     len(b.Succeeded) + len(b.Failed),
		Processed: len(b.Succeeded),
		Failed:    len(b.Failed),
	}
}
