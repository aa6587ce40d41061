package publish

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/skillwiki/confluence-publish/confluence"
)

// Preview fetches a page's rendered view and converts it to Markdown for a
// quick terminal sanity check after publishing.
func (u *Uploader) Preview(ctx context.Context, pageID string) (string, error) {
	content, err := u.API.GetContentByID(ctx, confluence.GetContentByIDQuery{
		ID:     pageID,
		Expand: []string{"body.view", "version"},
	})
	if err != nil {
		return "", fmt.Errorf("publish: couldn't fetch page %s for preview: %w", pageID, err)
	}

	if content.Body == nil || content.Body.View == nil {
		return "", fmt.Errorf("publish: page %s response held no view body", pageID)
	}

	converter := md.NewConverter("", true, nil)
	// Github flavoured Markdown knows about tables
	converter.Use(plugin.GitHubFlavored())

	markdown, err := converter.ConvertString(content.Body.View.Value)
	if err != nil {
		return "", fmt.Errorf("publish: couldn't convert page %s to Markdown: %w", pageID, err)
	}

	return markdown, nil
}
