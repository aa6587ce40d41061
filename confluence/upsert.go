package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ResolvePageID resolves a title to a page ID within the API's space.
//
// The underlying query is not parent-scoped and only the first result page
// is inspected, so a space holding many same-titled pages under different
// parents may resolve to an unintended one; callers needing parent-scoped
// resolution go through UpsertPage's ancestor filter instead.  Returns
// *NotFoundError when the result set is empty.
func (api *API) ResolvePageID(ctx context.Context, title string) (string, error) {
	ep, err := api.contentSearchEndpoint(ContentQuery{
		Title:    title,
		SpaceKey: api.Space,
		Expand:   []string{"ancestors"},
	})
	if err != nil {
		return "", err
	}

	var list ContentList
	if err := api.getJSON(ctx, ep, &list); err != nil {
		return "", fmt.Errorf("confluence: couldn't look up title %q: %w", title, err)
	}

	if list.Size == 0 || len(list.Results) == 0 {
		return "", &NotFoundError{Title: title, SpaceKey: api.Space}
	}

	return list.Results[0].ID, nil
}

// UpsertPage creates or updates the page with the given title directly under
// parentTitle, replacing its whole body with storageBody (storage
// representation).  The (title, direct parent) pair is the logical identity:
// an existing page only counts as a match if its last ancestor is the
// resolved parent, since the title query alone cannot tell two same-titled
// pages under different parents apart.
func (api *API) UpsertPage(ctx context.Context, title string, storageBody string, parentTitle string) (PageRef, error) {
	parentID, err := api.ResolvePageID(ctx, parentTitle)
	if err != nil {
		return PageRef{}, fmt.Errorf("confluence: couldn't resolve parent page %q: %w", parentTitle, err)
	}

	existing, err := api.findPageUnderParent(ctx, title, parentID)
	if err != nil {
		return PageRef{}, err
	}

	if existing != nil {
		return api.updatePage(ctx, existing, title, storageBody, parentID)
	}
	return api.createPage(ctx, title, storageBody, parentID)
}

// findPageUnderParent searches the space for title and applies the
// client-side parent filter.  Returns nil when no candidate matches.
func (api *API) findPageUnderParent(ctx context.Context, title string, parentID string) (*Content, error) {
	ep, err := api.contentSearchEndpoint(ContentQuery{
		Title:    title,
		SpaceKey: api.Space,
		Expand:   []string{"ancestors", "version"},
	})
	if err != nil {
		return nil, err
	}

	var list ContentList
	if err := api.getJSON(ctx, ep, &list); err != nil {
		return nil, fmt.Errorf("confluence: couldn't search for page %q: %w", title, err)
	}

	for i := range list.Results {
		candidate := &list.Results[i]
		if len(candidate.Ancestors) == 0 {
			continue
		}
		if candidate.Ancestors[len(candidate.Ancestors)-1].ID == parentID {
			return candidate, nil
		}
	}

	return nil, nil
}

func (api *API) createPage(ctx context.Context, title, storageBody, parentID string) (PageRef, error) {
	ep, err := api.createContentEndpoint()
	if err != nil {
		return PageRef{}, err
	}

	payload := Content{
		Type:      "page",
		Title:     title,
		Ancestors: []Ancestor{{ID: parentID}},
		Space:     &SpaceRef{Key: api.Space},
		Body: &Body{
			Storage: &Storage{Value: storageBody, Representation: "storage"},
		},
	}

	status, body, err := api.postJSON(ctx, ep, payload)
	if err != nil {
		return PageRef{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return PageRef{}, &UpsertError{StatusCode: status, Body: string(body)}
	}

	return api.pageRefFromResponse(body)
}

func (api *API) updatePage(ctx context.Context, existing *Content, title, storageBody, parentID string) (PageRef, error) {
	if existing.Version == nil {
		return PageRef{}, fmt.Errorf("confluence: page %s has no version metadata, cannot update", existing.ID)
	}

	ep, err := api.contentByIDEndpoint(GetContentByIDQuery{ID: existing.ID})
	if err != nil {
		return PageRef{}, err
	}

	// Declaring current+1 is the platform's optimistic-concurrency guard: a
	// concurrent edit bumps the number and our PUT is rejected.  We surface
	// that rejection rather than retrying.
	payload := Content{
		ID:        existing.ID,
		Type:      "page",
		Title:     title,
		Ancestors: []Ancestor{{ID: parentID}},
		Space:     &SpaceRef{Key: api.Space},
		Body: &Body{
			Storage: &Storage{Value: storageBody, Representation: "storage"},
		},
		Version: &Version{Number: existing.Version.Number + 1},
	}

	status, body, err := api.putJSON(ctx, ep, payload)
	if err != nil {
		return PageRef{}, err
	}
	if status != http.StatusOK {
		return PageRef{}, &UpsertError{StatusCode: status, Body: string(body)}
	}

	return api.pageRefFromResponse(body)
}

func (api *API) pageRefFromResponse(body []byte) (PageRef, error) {
	var page Content
	if err := json.Unmarshal(body, &page); err != nil {
		return PageRef{}, &LookupError{Err: err, BodyPreview: string(body)}
	}

	return PageRef{
		ID:     page.ID,
		WebURL: api.BaseURI.String() + page.Links.WebUI,
	}, nil
}
