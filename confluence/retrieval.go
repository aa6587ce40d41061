package confluence

import (
	"context"
	"fmt"
)

// GetContentByID fetches one content object with the requested expansions,
// e.g. "body.view" for rendered HTML or "body.storage,version" for raw
// storage markup.
func (api *API) GetContentByID(ctx context.Context, opts GetContentByIDQuery) (*Content, error) {
	ep, err := api.contentByIDEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get content endpoint: %w", err)
	}

	var content Content
	if err := api.getJSON(ctx, ep, &content); err != nil {
		return nil, fmt.Errorf("confluence: couldn't fetch content %s: %w", opts.ID, err)
	}

	return &content, nil
}
