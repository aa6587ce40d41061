package confluence

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// contentSearchEndpoint returns the (v1) API endpoint to search content by
// title and space:
// https://developer.atlassian.com/server/confluence/rest/v1010/api-group-content/#api-rest-api-content-get
func (a *API) contentSearchEndpoint(opts ContentQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("/rest/api/content")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// contentByIDEndpoint returns the (v1) API endpoint for one content object.
// Used both for GET (with expansions) and PUT (update).
func (a *API) contentByIDEndpoint(opts GetContentByIDQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("confluence: please provide ID to get content by ID")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/rest/api/content/%s", opts.ID))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// createContentEndpoint returns the (v1) API endpoint to create a content
// object (a page, for our purposes).
func (a *API) createContentEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/rest/api/content")
}

// attachmentsEndpoint returns the (v1) API endpoint for a page's child
// attachments.  GET lists (optionally filtered by filename), multipart POST
// creates.
func (a *API) attachmentsEndpoint(pageID string, opts AttachmentQuery) (*url.URL, error) {
	if pageID == "" {
		return nil, fmt.Errorf("confluence: please provide page ID for attachments")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/rest/api/content/%s/child/attachment", pageID))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// attachmentDataEndpoint returns the (v1) API endpoint that replaces an
// existing attachment's binary content in place:
// https://developer.atlassian.com/server/confluence/rest/v1010/api-group-content/#api-rest-api-content-id-child-attachment-attachmentid-data-post
func (a *API) attachmentDataEndpoint(pageID, attachmentID string) (*url.URL, error) {
	if pageID == "" || attachmentID == "" {
		return nil, fmt.Errorf("confluence: please provide page and attachment IDs")
	}

	return a.resolveEndpoint(fmt.Sprintf("/rest/api/content/%s/child/attachment/%s/data", pageID, attachmentID))
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := a.BaseURI

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: failed to parse endpoint ref: %w", err)
	}

	// ResolveReference would drop a path prefix like /wiki, so join instead.
	joined := *baseUri
	joined.Path = baseUri.Path + ref.Path
	joined.RawQuery = ref.RawQuery

	return &joined, nil
}
