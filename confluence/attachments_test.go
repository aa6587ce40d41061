package confluence

import (
	"context"
	"testing"

	"github.com/skillwiki/confluence-publish/internal/confluencetest"
	"github.com/stretchr/testify/require"
)

func TestUpsertAttachmentCreates(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	page := server.SeedPage("Doc", "")

	api := newTestAPI(t, server)

	ref, err := api.UpsertAttachment(context.Background(), page.ID, "plot.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	require.Equal(t, "plot.png", ref.Title)
	require.Equal(t, 1, ref.Version)

	stored, ok := server.AttachmentByName(page.ID, "plot.png")
	require.True(t, ok)
	require.Equal(t, []byte("png-bytes"), stored.Data)
	require.Equal(t, "image/png", stored.MediaType)
}

func TestUpsertAttachmentReplacesInPlace(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	page := server.SeedPage("Doc", "")

	api := newTestAPI(t, server)
	ctx := context.Background()

	first, err := api.UpsertAttachment(ctx, page.ID, "data.csv", []byte("v1"), "text/csv")
	require.NoError(t, err)

	second, err := api.UpsertAttachment(ctx, page.ID, "data.csv", []byte("v2"), "text/csv")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 2, second.Version)

	// Still exactly one attachment, now holding the second upload's bytes.
	require.Equal(t, 1, server.AttachmentCount(page.ID))
	stored, ok := server.AttachmentByName(page.ID, "data.csv")
	require.True(t, ok)
	require.Equal(t, []byte("v2"), stored.Data)
}

func TestUpsertAttachmentReportedDuplicateMissing(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	page := server.SeedPage("Doc", "")
	server.ForceDuplicateAttachment = true

	api := newTestAPI(t, server)

	_, err := api.UpsertAttachment(context.Background(), page.ID, "ghost.png", []byte("x"), "image/png")
	var consistency *ConsistencyError
	require.ErrorAs(t, err, &consistency)
	require.Equal(t, page.ID, consistency.PageID)
	require.Equal(t, "ghost.png", consistency.Filename)
}

func TestUpsertAttachmentSurfacesRejection(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()

	api := newTestAPI(t, server)

	// Nonexistent page: the 404 must come back verbatim, not as a retry.
	_, err := api.UpsertAttachment(context.Background(), "99999", "x.png", []byte("x"), "image/png")
	var upsert *UpsertError
	require.ErrorAs(t, err, &upsert)
	require.Equal(t, 404, upsert.StatusCode)
}

func TestIsDuplicateFilename(t *testing.T) {
	duplicateBody := []byte(`{"message":"Cannot add a new attachment with same file name as an existing attachment: a.png"}`)

	require.True(t, isDuplicateFilename(400, duplicateBody))
	require.False(t, isDuplicateFilename(500, duplicateBody))
	require.False(t, isDuplicateFilename(400, []byte(`{"message":"space does not exist"}`)))
}
