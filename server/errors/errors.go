package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

// ErrMalformedDocument is returned when an integration flow contains no process definition.
var ErrMalformedDocument = errors.New("no process found in the integration flow document")

// ErrEmptyArchive is returned when an artifact archive has no content.
var ErrEmptyArchive = errors.New("invalid or empty artifact archive")

// ErrArtifactFileMissing is returned when a required file cannot be located inside an artifact archive.
var ErrArtifactFileMissing = errors.New("required file missing from artifact archive")

// ErrArtifactNotFound is returned when no archive exists for an integration flow ID.
var ErrArtifactNotFound = errors.New("artifact not found")

// ErrBadIflowID is returned when an integration flow ID would name a file outside the artifact directory.
var ErrBadIflowID = errors.New("invalid integration flow id")

// ErrDownload is returned when an artifact could not be downloaded from the integration tenant.
var ErrDownload = errors.New("artifact download failed")

// ErrBadVersion is returned when an artifact version is neither "active" nor a semantic version.
var ErrBadVersion = errors.New("invalid artifact version")

// ErrNoIflows is returned when an extraction request does not name any integration flow.
var ErrNoIflows = errors.New("request must contain a non-empty iflows list")

// ErrApiAuthNFail is returned when an API caller could not be authenticated.
var ErrApiAuthNFail = errors.New("failed to authenticate API call")

// ErrMissingSetting is returned when a required configuration value has not been supplied.
var ErrMissingSetting = errors.New("missing required setting")

// ErrBadFilter is returned when a record filter expression cannot be compiled.
var ErrBadFilter = errors.New("invalid record filter expression")

// ErrServerOffline is returned when no iflowscan server answers on the NATS API subject.
var ErrServerOffline = errors.New("iflowscan server is offline or missing from the current nats server")

// APIError is a call rejected by the iflowscan API.
type APIError struct {
	Code    codes.Code
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap allows a rejected authentication to be matched against ErrApiAuthNFail.
func (e *APIError) Unwrap() error {
	if e.Code == codes.Unauthenticated {
		return ErrApiAuthNFail
	}
	return nil
}

// DownloadError carries the HTTP status and a body excerpt of a failed artifact download.
type DownloadError struct {
	Status int
	Body   string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("HTTP %d - %s", e.Status, e.Body)
}

// Unwrap allows DownloadError to be matched against ErrDownload.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers
func (e *DownloadError) Unwrap() error {
	return ErrDownload
}
