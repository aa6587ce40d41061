package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// UpsertAttachment uploads data as an attachment named filename on pageID,
// replacing the existing attachment of that name if there is one.  The
// platform keeps at most one live attachment per (page, filename); "replace"
// posts new content against the existing attachment's data endpoint, which
// bumps its version but preserves ID and filename.
//
// The flow is optimistic: try the create first and treat the platform's
// duplicate-filename rejection as the signal to branch to update.  That
// saves a lookup round-trip in the common first-upload case.
func (api *API) UpsertAttachment(ctx context.Context, pageID string, filename string, data []byte, mimeType string) (AttachmentRef, error) {
	ep, err := api.attachmentsEndpoint(pageID, AttachmentQuery{})
	if err != nil {
		return AttachmentRef{}, err
	}

	status, body, err := api.postMultipart(ctx, ep, filename, data, mimeType)
	if err != nil {
		return AttachmentRef{}, err
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return attachmentRefFromCreate(body)
	case isDuplicateFilename(status, body):
		return api.replaceAttachment(ctx, pageID, filename, data, mimeType)
	default:
		return AttachmentRef{}, &UpsertError{StatusCode: status, Body: string(body)}
	}
}

// isDuplicateFilename reports whether a rejected create means "an attachment
// with that filename already exists".  The platform gives us no structured
// error code for this, only prose, so the coupling to the message text is
// confined here.
func isDuplicateFilename(status int, body []byte) bool {
	return status == http.StatusBadRequest && strings.Contains(string(body), "same file name")
}

// replaceAttachment is the update half of the upsert: find the attachment
// the platform says already exists, and post the new bytes to its data
// endpoint.
func (api *API) replaceAttachment(ctx context.Context, pageID, filename string, data []byte, mimeType string) (AttachmentRef, error) {
	existing, err := api.findAttachment(ctx, pageID, filename)
	if err != nil {
		return AttachmentRef{}, err
	}
	if existing == nil {
		return AttachmentRef{}, &ConsistencyError{PageID: pageID, Filename: filename}
	}

	ep, err := api.attachmentDataEndpoint(pageID, existing.ID)
	if err != nil {
		return AttachmentRef{}, err
	}

	status, body, err := api.postMultipart(ctx, ep, filename, data, mimeType)
	if err != nil {
		return AttachmentRef{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return AttachmentRef{}, &UpsertError{StatusCode: status, Body: string(body)}
	}

	// The data endpoint returns the single updated attachment, not a list.
	var updated Attachment
	if err := json.Unmarshal(body, &updated); err != nil {
		return AttachmentRef{}, &LookupError{Err: err, BodyPreview: string(body)}
	}

	return attachmentRef(updated), nil
}

// findAttachment looks up a page's attachment by exact filename.  Returns
// nil when the page has no attachment of that name.
func (api *API) findAttachment(ctx context.Context, pageID, filename string) (*Attachment, error) {
	ep, err := api.attachmentsEndpoint(pageID, AttachmentQuery{
		Filename: filename,
		Expand:   []string{"version"},
	})
	if err != nil {
		return nil, err
	}

	var list AttachmentList
	if err := api.getJSON(ctx, ep, &list); err != nil {
		return nil, fmt.Errorf("confluence: couldn't list attachments on page %s: %w", pageID, err)
	}

	if len(list.Results) == 0 {
		return nil, nil
	}
	return &list.Results[0], nil
}

func attachmentRefFromCreate(body []byte) (AttachmentRef, error) {
	// A multipart create returns a list envelope holding the one new
	// attachment.
	var list AttachmentList
	if err := json.Unmarshal(body, &list); err != nil {
		return AttachmentRef{}, &LookupError{Err: err, BodyPreview: string(body)}
	}
	if len(list.Results) == 0 {
		return AttachmentRef{}, &LookupError{
			Err:         fmt.Errorf("confluence: create response held no attachment"),
			BodyPreview: string(body),
		}
	}

	return attachmentRef(list.Results[0]), nil
}

func attachmentRef(a Attachment) AttachmentRef {
	ref := AttachmentRef{ID: a.ID, Title: a.Title}
	if a.Version != nil {
		ref.Version = a.Version.Number
	}
	return ref
}
