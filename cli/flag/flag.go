package flag

import "time"

const (
	// LogLevel is the flag name for the CLI logging level.
	LogLevel = "log-level"
	// LogLevelShort is the short flag name for the CLI logging level.
	LogLevelShort = "l"
	// JsonOutput is the flag name for JSON output.
	JsonOutput = "json"
	// JsonOutputShort is the short flag name for JSON output.
	JsonOutputShort = "j"
	// Where is the flag name for the record filter expression.
	Where = "where"
	// WhereShort is the short flag name for the record filter expression.
	WhereShort = "w"
	// Xlsx is the flag name for the workbook report path.
	Xlsx = "xlsx"
	// Manifest is the flag name for a TOML batch manifest.
	Manifest = "manifest"
	// ManifestShort is the short flag name for a TOML batch manifest.
	ManifestShort = "m"
	// ArtifactVersion is the flag name for the design time artifact version.
	ArtifactVersion = "artifact-version"
	// Concurrency is the flag name for the number of artifacts processed at once.
	Concurrency = "concurrency"
	// ConcurrencyShort is the short flag name for the number of artifacts processed at once.
	ConcurrencyShort = "c"
	// Server is the flag name for the NATS server address.
	Server = "server"
	// ServerShort is the short flag name for the NATS server address.
	ServerShort = "s"
	// NatsHost is the flag name for the host of an in process NATS server.
	NatsHost = "nats-host"
	// NatsPort is the flag name for the port of an in process NATS server.
	NatsPort = "nats-port"
	// Token is the flag name for the API bearer token.
	Token = "token"
	// Dir is the flag name for the directory serving zip artifacts.
	Dir = "dir"
	// Subject is the flag name for the subject of an API token.
	Subject = "subject"
	// TTL is the flag name for the lifetime of an API token.
	TTL = "ttl"
)

// Set is the set of flags associated with the CLI.
type Set struct {
	LogLevel        string
	Json            bool
	Where           string
	Xlsx            string
	Manifest        string
	ArtifactVersion string
	Concurrency     int
	Server          string
	NatsHost        string
	NatsPort        int
	Token           string
	Dir             string
	Subject         string
	TTL             time.Duration
}

// Value contains the values of the iflowscan CLI flags.
var Value Set
