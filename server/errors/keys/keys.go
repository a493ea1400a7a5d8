package keys

// ContextKey is the wrapper for using context keys
type ContextKey string

const (
	// IflowName is the key for the integration flow artifact identifier.
	IflowName = "iflow"
	// IflowFile is the key for the .iflw file name found inside an artifact.
	IflowFile = "iflw_file"
	// CallActivityID is the key for the ID of the call activity being processed.
	CallActivityID = "ca_id"
	// CallActivityName is the key for the display name of the call activity being processed.
	CallActivityName = "ca_name"
	// RunID is the key for the unique identifier of a batch run.
	RunID = "run_id"
	// HeaderCount is the key for the number of headers found, excluding empty table markers.
	HeaderCount = "headers"
	// ParameterCount is the key for the number of keys loaded from a parameter file.
	ParameterCount = "params"
	// ArtifactVersion is the key for the requested artifact version.
	ArtifactVersion = "version"
	// TraceID is the key for the trace ID supplied by a caller.
	TraceID = "trace_id"
	// SpanID is the key for the span ID supplied by a caller.
	SpanID = "span_id"
	// OutputFile is the key for the path of a written report.
	OutputFile = "file"
)
