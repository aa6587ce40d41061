package confluence

// Content is a v1 content object: a page, for everything this tool does.
// See https://developer.atlassian.com/server/confluence/rest/v1010/api-group-content/
type Content struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type,omitempty"`   // "page"
	Status string `json:"status,omitempty"` // current, trashed, ...
	Title  string `json:"title,omitempty"`

	// Ordered root-first; the last element is the direct parent.  Only
	// present when the query expands "ancestors".
	Ancestors []Ancestor `json:"ancestors,omitempty"`

	Space   *SpaceRef `json:"space,omitempty"`
	Version *Version  `json:"version,omitempty"`
	Body    *Body     `json:"body,omitempty"`

	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

// Ancestor carries just the ID of a page above us in the tree.
type Ancestor struct {
	ID string `json:"id"`
}

// SpaceRef references the containing space by key.
type SpaceRef struct {
	Key string `json:"key"`
}

// Version defines the content version number.
// The version number is used for updating content: an update must declare
// the current number plus one, or the platform rejects it.
type Version struct {
	Number int `json:"number"`
}

// Body holds the storage information.
type Body struct {
	Storage *Storage `json:"storage,omitempty"`
	View    *Storage `json:"view,omitempty"`
}

// Storage defines the storage information.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// ContentList is the envelope for v1 content searches.  Size is the number
// of results in this page of the result set, not the total.
type ContentList struct {
	Results []Content `json:"results"`
	Start   int       `json:"start"`
	Limit   int       `json:"limit"`
	Size    int       `json:"size"`
}

// Attachment is the v1 attachment shape (itself a content object of type
// "attachment"; Title carries the filename).
type Attachment struct {
	ID      string   `json:"id,omitempty"`
	Type    string   `json:"type,omitempty"`
	Title   string   `json:"title,omitempty"`
	Version *Version `json:"version,omitempty"`

	Extensions struct {
		MediaType string `json:"mediaType"`
		FileSize  int64  `json:"fileSize"`
	} `json:"extensions"`

	Links struct {
		Download string `json:"download"`
	} `json:"_links"`
}

// AttachmentList is the envelope for attachment listings, and also what a
// multipart create POST returns.
type AttachmentList struct {
	Results []Attachment `json:"results"`
	Size    int          `json:"size"`
}

// PageRef is what the upsert engine hands back: enough to hang attachments
// off the page and to print a clickable link.
type PageRef struct {
	ID     string
	WebURL string
}

// AttachmentRef identifies one live attachment version on a page.
type AttachmentRef struct {
	ID      string
	Title   string
	Version int
}
