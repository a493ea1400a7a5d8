package cpi

import (
	"net/http"
	"time"
)

// WithVersion selects the artifact version to download.  The default is "active".
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithVersion(v string) artifactVersion { //nolint
	return artifactVersion{val: v}
}

type artifactVersion struct {
	val string
}

func (o artifactVersion) configure(c *Client) {
	c.version = o.val
}

// WithHTTPClient sets the base HTTP client used for both token and download requests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithHTTPClient(hc *http.Client) httpClient { //nolint
	return httpClient{val: hc}
}

type httpClient struct {
	val *http.Client
}

func (o httpClient) configure(c *Client) {
	c.transport = o.val
}

// WithTimeouts overrides the token and download request timeouts.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTimeouts(token time.Duration, download time.Duration) timeouts { //nolint
	return timeouts{token: token, download: download}
}

type timeouts struct {
	token    time.Duration
	download time.Duration
}

func (o timeouts) configure(c *Client) {
	c.tokenTimeout = o.token
	c.downloadTimeout = o.download
}
