package confluence

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// NewAPI builds an API handle for one Confluence instance and space.
//
// baseURL is the full wiki base, e.g. https://wiki.example.com or
// https://example.atlassian.net/wiki.  caBundle is an optional path to a PEM
// bundle for instances behind an internal CA; when empty, TLS verification is
// disabled, since internal certs are typically not in the system pool.
func NewAPI(baseURL string, username string, token string, caBundle string, spaceKey string) (*API, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("confluence: configure your Confluence base URL with --base-url")
	}
	if token == "" {
		return nil, fmt.Errorf("confluence: auth token is empty, set CONFLUENCE_PAT or check auth-token-cmd")
	}
	if spaceKey == "" {
		return nil, fmt.Errorf("confluence: configure your space key with --space")
	}

	u, err := url.ParseRequestURI(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse REST API URL: %w", err)
	}

	transport, err := buildTransport(caBundle)
	if err != nil {
		return nil, err
	}

	a := &API{
		BaseURI:  u,
		Space:    spaceKey,
		token:    token,
		username: username,
	}
	a.Client = &http.Client{Transport: transport}

	return a, nil
}

type API struct {
	// Base URI of the wiki, e.g. https://wiki.example.com
	BaseURI *url.URL

	// Key of the space all page and attachment operations are scoped to.
	Space string

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Auth info.  Username is informational only; auth is bearer-token.
	username, token string
}

func buildTransport(caBundle string) (*http.Transport, error) {
	if caBundle == "" {
		return &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}, nil
	}

	pem, err := os.ReadFile(caBundle)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't read CA bundle %s: %w", caBundle, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("confluence: no certificates found in CA bundle %s", caBundle)
	}

	return &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: pool},
	}, nil
}
