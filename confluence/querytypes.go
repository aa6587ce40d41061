package confluence

// ContentQuery defines the query parameters for the (v1) content search:
// https://developer.atlassian.com/server/confluence/rest/v1010/api-group-content/#api-rest-api-content-get
type ContentQuery struct {
	Title    string   `url:"title,omitempty"`    // Filter by exact title
	SpaceKey string   `url:"spaceKey,omitempty"` // Limit to one space
	Expand   []string `url:"expand,omitempty,comma"`

	// Classic offset pagination.  Note that only the first result page is
	// ever inspected by the upsert flows; see ResolvePageID.
	Start int `url:"start,omitempty"`
	Limit int `url:"limit,omitempty"` // server default 25
}

// GetContentByIDQuery defines the query parameters for fetching one content
// object by ID via the v1 API.
type GetContentByIDQuery struct {
	ID     string   `url:"-"` // ID of the content; required
	Expand []string `url:"expand,omitempty,comma"`
}

// AttachmentQuery defines the query parameters for listing a page's
// attachments:
// https://developer.atlassian.com/server/confluence/rest/v1010/api-group-content/#api-rest-api-content-id-child-attachment-get
type AttachmentQuery struct {
	Filename  string   `url:"filename,omitempty"`  // Filter by exact filename
	MediaType string   `url:"mediaType,omitempty"` // Filter by media type
	Expand    []string `url:"expand,omitempty,comma"`

	Start int `url:"start,omitempty"`
	Limit int `url:"limit,omitempty"`
}
