package cpi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/common/version"
	"gitlab.com/shar-workflow/iflowscan/internal/artifact"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
	"gitlab.com/shar-workflow/iflowscan/server/errors/keys"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultTokenTimeout    = 15 * time.Second
	defaultDownloadTimeout = 30 * time.Second
	errorBodyLimit         = 300
)

// Credentials identify an OAuth client of the integration tenant.
type Credentials struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Client downloads design time artifacts from an integration tenant.
type Client struct {
	baseURL         string
	version         string
	tokenTimeout    time.Duration
	downloadTimeout time.Duration
	transport       *http.Client
	http            *http.Client
}

// Option configures a Client.
type Option interface {
	configure(c *Client)
}

// New creates a client that authenticates with the OAuth client credentials grant.
// Tokens are cached and refreshed by the client for its lifetime.
func New(ctx context.Context, creds Credentials, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:         strings.TrimRight(creds.BaseURL, "/"),
		version:         version.Active,
		tokenTimeout:    defaultTokenTimeout,
		downloadTimeout: defaultDownloadTimeout,
		transport:       http.DefaultClient,
	}
	for _, i := range opts {
		i.configure(c)
	}
	v, err := version.ArtifactVersion(c.version)
	if err != nil {
		return nil, fmt.Errorf("create cpi client: %w", err)
	}
	c.version = v

	tokenClient := *c.transport
	tokenClient.Timeout = c.tokenTimeout
	cc := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	hc := cc.Client(context.WithValue(ctx, oauth2.HTTPClient, &tokenClient))
	hc.Timeout = c.downloadTimeout
	c.http = hc
	return c, nil
}

// ArtifactURL returns the download URL of an iFlow design time artifact.
func (c *Client) ArtifactURL(iflowID string) string {
	return fmt.Sprintf("%s/api/v1/IntegrationDesigntimeArtifacts(Id='%s',Version='%s')/$value",
		c.baseURL, url.PathEscape(iflowID), url.PathEscape(c.version))
}

// Download fetches the zipped design time artifact of an iFlow.
// A non-success status is returned as a *errors.DownloadError.
func (c *Client) Download(ctx context.Context, iflowID string) ([]byte, error) {
	log := logx.FromContext(ctx).With(keys.IflowName, iflowID, keys.ArtifactVersion, c.version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ArtifactURL(iflowID), nil)
	if err != nil {
		return nil, fmt.Errorf("create download request for %s: %w", iflowID, err)
	}
	req.Header.Set("Accept", "application/zip, application/octet-stream")
	log.Debug("downloading artifact")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", iflowID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("download %s: %w", iflowID, &errors2.DownloadError{Status: resp.StatusCode, Body: string(excerpt)})
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", iflowID, err)
	}
	log.Debug("downloaded artifact", "bytes", len(b))
	return b, nil
}

// Fetch downloads and opens the artifact of an iFlow.
func (c *Client) Fetch(ctx context.Context, iflowID string) (*artifact.Artifact, error) {
	b, err := c.Download(ctx, iflowID)
	if err != nil {
		return nil, err
	}
	a, err := artifact.Load(b, iflowID)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", iflowID, err)
	}
	return a, nil
}
