package confluence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentSearchEndpoint(t *testing.T) {
	api, err := NewAPI("https://wiki.example.com", "u", "token", "", "TEST")
	require.NoError(t, err)

	ep, err := api.contentSearchEndpoint(ContentQuery{
		Title:    "My Page",
		SpaceKey: "TEST",
		Expand:   []string{"ancestors", "version"},
	})
	require.NoError(t, err)

	require.Equal(t, "/rest/api/content", ep.Path)
	q := ep.Query()
	require.Equal(t, "My Page", q.Get("title"))
	require.Equal(t, "TEST", q.Get("spaceKey"))
	require.Equal(t, "ancestors,version", q.Get("expand"))
}

func TestResolveEndpointKeepsBasePathPrefix(t *testing.T) {
	// Cloud-style base URLs carry a /wiki prefix that must survive joining.
	api, err := NewAPI("https://example.atlassian.net/wiki", "u", "token", "", "TEST")
	require.NoError(t, err)

	ep, err := api.resolveEndpoint("/rest/api/content/123/child/attachment")
	require.NoError(t, err)
	require.Equal(t, "https://example.atlassian.net/wiki/rest/api/content/123/child/attachment", ep.String())
}

func TestAttachmentsEndpointRequiresPageID(t *testing.T) {
	api, err := NewAPI("https://wiki.example.com", "u", "token", "", "TEST")
	require.NoError(t, err)

	_, err = api.attachmentsEndpoint("", AttachmentQuery{})
	require.Error(t, err)

	_, err = api.attachmentDataEndpoint("123", "")
	require.Error(t, err)
}
