package model

// ExtractRequest asks the service to extract the headers of a list of iFlows.
type ExtractRequest struct {
	Iflows []string `json:"iflows"`
}

// ExtractResponse reports the outcome of an extract request.
type ExtractResponse struct {
	Status  string            `json:"status"`
	RunID   string            `json:"runId"`
	File    string            `json:"file,omitempty"`
	Summary BatchSummary      `json:"summary"`
	Failed  []ArtifactFailure `json:"failed,omitempty"`
}

// APIError is the body of a failed API call.
type APIError struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}
