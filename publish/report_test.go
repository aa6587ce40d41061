package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/skillwiki/confluence-publish/internal/confluencetest"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeXLSX(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestReadSheetCSV(t *testing.T) {
	path := writeCSV(t, "corner,delay\ntt,1.2\nff,0.9\n")

	headers, rows, err := ReadSheet(path)
	require.NoError(t, err)
	require.Equal(t, []string{"corner", "delay"}, headers)
	require.Equal(t, [][]string{{"tt", "1.2"}, {"ff", "0.9"}}, rows)
}

func TestReadSheetCSVEmpty(t *testing.T) {
	path := writeCSV(t, "")
	_, _, err := ReadSheet(path)
	require.ErrorContains(t, err, "empty")
}

func TestReadSheetXLSX(t *testing.T) {
	path := writeXLSX(t, [][]any{
		{"corner", "delay", "slack"},
		{"tt", "1.2", "0.3"},
		{"ff", "0.9"}, // short row: trailing cell left blank
	})

	headers, rows, err := ReadSheet(path)
	require.NoError(t, err)
	require.Equal(t, []string{"corner", "delay", "slack"}, headers)
	require.Equal(t, [][]string{
		{"tt", "1.2", "0.3"},
		{"ff", "0.9", ""},
	}, rows)
}

func TestReadSheetUnsupportedFormat(t *testing.T) {
	_, _, err := ReadSheet("data.ods")
	require.ErrorContains(t, err, "unsupported sheet format")
}

func TestPublishReport(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	server.SeedPage("Home", "")

	path := writeCSV(t, "corner,delay\ntt,1.2\n")

	u := newTestUploader(t, server)
	ref, err := u.PublishReport(context.Background(), "Timing Report", path, "")
	require.NoError(t, err)

	page, ok := server.PageByID(ref.ID)
	require.True(t, ok)
	require.Contains(t, page.Body, "<h1>Timing Report</h1>")
	require.Contains(t, page.Body, "<td>tt</td><td>1.2</td>")
	require.NotContains(t, page.Body, "ac:image")
	require.Equal(t, 0, server.AttachmentCount(ref.ID))
}

func TestPublishReportWithPlot(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	server.SeedPage("Home", "")

	sheetPath := writeCSV(t, "corner,delay\ntt,1.2\n")
	plotPath := filepath.Join(t.TempDir(), "delay.png")
	require.NoError(t, os.WriteFile(plotPath, []byte("fake-png"), 0644))

	u := newTestUploader(t, server)
	ref, err := u.PublishReport(context.Background(), "Timing Report", sheetPath, plotPath)
	require.NoError(t, err)

	// The plot pass rewrites the page to reference the attachment, so the
	// final body carries the image and the page sits at version 2.
	page, ok := server.PageByID(ref.ID)
	require.True(t, ok)
	require.Contains(t, page.Body, `ri:filename="delay.png"`)
	require.Equal(t, 2, page.Version)

	att, ok := server.AttachmentByName(ref.ID, "delay.png")
	require.True(t, ok)
	require.Equal(t, []byte("fake-png"), att.Data)
}

func TestPublishReportRerunKeepsOneAttachment(t *testing.T) {
	server := confluencetest.NewServer()
	defer server.Close()
	server.SeedPage("Home", "")

	sheetPath := writeCSV(t, "corner,delay\ntt,1.2\n")
	plotPath := filepath.Join(t.TempDir(), "delay.png")
	require.NoError(t, os.WriteFile(plotPath, []byte("v1"), 0644))

	u := newTestUploader(t, server)
	ctx := context.Background()

	_, err := u.PublishReport(ctx, "Timing Report", sheetPath, plotPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(plotPath, []byte("v2"), 0644))
	ref, err := u.PublishReport(ctx, "Timing Report", sheetPath, plotPath)
	require.NoError(t, err)

	require.Equal(t, 1, server.AttachmentCount(ref.ID))
	att, _ := server.AttachmentByName(ref.ID, "delay.png")
	require.Equal(t, []byte("v2"), att.Data)
	require.Equal(t, 2, att.Version)
}
