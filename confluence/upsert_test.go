package confluence

import (
	"context"
	"testing"

	"github.com/skillwiki/confluence-publish/internal/confluencetest"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, server *confluencetest.Server) *API {
	t.Helper()

	api, err := NewAPI(server.URL, "tester@example.com", "dummy-token", "", "TEST")
	require.NoError(t, err)
	api.Client = server.Client()
	return api
}

func TestNewAPIValidation(t *testing.T) {
	_, err := NewAPI("", "u", "token", "", "TEST")
	require.ErrorContains(t, err, "base URL")

	_, err = NewAPI("https://wiki.example.com", "u", "", "", "TEST")
	require.ErrorContains(t, err, "token")

	_, err = NewAPI("https://wiki.example.com", "u", "token", "", "")
	require.ErrorContains(t, err, "space")
}

func TestResolvePageID(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	home := server.SeedPage("Home", "")

	api := newTestAPI(t, server)

	id, err := api.ResolvePageID(context.Background(), "Home")
	require.NoError(t, err)
	require.Equal(t, home.ID, id)
}

func TestResolvePageIDNotFound(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()

	api := newTestAPI(t, server)

	_, err := api.ResolvePageID(context.Background(), "No Such Page")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "No Such Page", notFound.Title)
	require.Equal(t, "TEST", notFound.SpaceKey)
}

func TestResolvePageIDMalformedResponse(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	server.ServeHTML = true

	api := newTestAPI(t, server)

	_, err := api.ResolvePageID(context.Background(), "Home")
	var lookup *LookupError
	require.ErrorAs(t, err, &lookup)
	require.Contains(t, lookup.BodyPreview, "<html>")
}

func TestUpsertPageCreates(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	home := server.SeedPage("Home", "")

	api := newTestAPI(t, server)

	ref, err := api.UpsertPage(context.Background(), "X", "<p>body1</p>", "Home")
	require.NoError(t, err)
	require.NotEmpty(t, ref.ID)
	require.Contains(t, ref.WebURL, "/display/TEST/X")

	page, ok := server.PageByID(ref.ID)
	require.True(t, ok)
	require.Equal(t, "X", page.Title)
	require.Equal(t, home.ID, page.ParentID)
	require.Equal(t, 1, page.Version)
	require.Equal(t, "<p>body1</p>", page.Body)
}

func TestUpsertPageUpdatesInPlace(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	server.SeedPage("Home", "")

	api := newTestAPI(t, server)
	ctx := context.Background()

	first, err := api.UpsertPage(ctx, "X", "body1", "Home")
	require.NoError(t, err)

	second, err := api.UpsertPage(ctx, "X", "body2", "Home")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	// Exactly one page titled X, holding the second body at version 2.
	pages := server.PagesByTitle("X")
	require.Len(t, pages, 1)
	require.Equal(t, "body2", pages[0].Body)
	require.Equal(t, 2, pages[0].Version)
}

func TestUpsertPageDisambiguatesByParent(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	parentA := server.SeedPage("Parent A", "")
	parentB := server.SeedPage("Parent B", "")
	underB := server.SeedPage("Shared Title", parentB.ID)

	api := newTestAPI(t, server)

	// Targeting parent A must never touch the same-titled page under B.
	ref, err := api.UpsertPage(context.Background(), "Shared Title", "for A", "Parent A")
	require.NoError(t, err)
	require.NotEqual(t, underB.ID, ref.ID)

	created, ok := server.PageByID(ref.ID)
	require.True(t, ok)
	require.Equal(t, parentA.ID, created.ParentID)

	untouched, ok := server.PageByID(underB.ID)
	require.True(t, ok)
	require.Equal(t, 1, untouched.Version)
	require.Empty(t, untouched.Body)
}

func TestUpsertPageUpdatesCorrectSibling(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	parentA := server.SeedPage("Parent A", "")
	parentB := server.SeedPage("Parent B", "")
	underA := server.SeedPage("Shared Title", parentA.ID)
	underB := server.SeedPage("Shared Title", parentB.ID)

	api := newTestAPI(t, server)

	ref, err := api.UpsertPage(context.Background(), "Shared Title", "updated", "Parent B")
	require.NoError(t, err)
	require.Equal(t, underB.ID, ref.ID)

	got, _ := server.PageByID(underB.ID)
	require.Equal(t, 2, got.Version)
	require.Equal(t, "updated", got.Body)

	other, _ := server.PageByID(underA.ID)
	require.Equal(t, 1, other.Version)
}

func TestUpsertPageMissingParent(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()

	api := newTestAPI(t, server)

	_, err := api.UpsertPage(context.Background(), "X", "body", "Nonexistent Parent")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "Nonexistent Parent", notFound.Title)
}

func TestUpsertPageSurfacesRejection(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	server.SeedPage("Home", "")
	server.FailCreateTitles["Doomed"] = true

	api := newTestAPI(t, server)

	_, err := api.UpsertPage(context.Background(), "Doomed", "body", "Home")
	var upsert *UpsertError
	require.ErrorAs(t, err, &upsert)
	require.Equal(t, 500, upsert.StatusCode)
	require.Contains(t, upsert.Body, "injected failure")
}
