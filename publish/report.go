package publish

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skillwiki/confluence-publish/confluence"
	"github.com/skillwiki/confluence-publish/markup"
	"github.com/xuri/excelize/v2"
)

// PublishReport publishes a tabular report page under the global parent:
// the first row of the sheet becomes the table header, the rest the rows.
// When plotPath is set, that image is attached to the page and referenced
// inline.
//
// The page has to exist before the attachment can be posted, so the flow is
// two-pass: upsert the page without the image reference, attach, then upsert
// again referencing the attachment.
func (u *Uploader) PublishReport(ctx context.Context, title string, sheetPath string, plotPath string) (confluence.PageRef, error) {
	headers, rows, err := ReadSheet(sheetPath)
	if err != nil {
		return confluence.PageRef{}, err
	}

	ref, err := u.API.UpsertPage(ctx, title, markup.ReportBody(title, headers, rows, ""), u.ParentTitle)
	if err != nil {
		return confluence.PageRef{}, fmt.Errorf("publish: couldn't upsert report page %q: %w", title, err)
	}

	if plotPath == "" {
		u.Logger.Printf("Report page %q: %s", title, ref.WebURL)
		return ref, nil
	}

	plotName := filepath.Base(plotPath)
	plotBytes, err := os.ReadFile(plotPath)
	if err != nil {
		return confluence.PageRef{}, fmt.Errorf("publish: couldn't read plot image %s: %w", plotPath, err)
	}

	if _, err := u.API.UpsertAttachment(ctx, ref.ID, plotName, plotBytes, MIMEType(plotName)); err != nil {
		return confluence.PageRef{}, fmt.Errorf("publish: couldn't attach plot %q: %w", plotName, err)
	}

	ref, err = u.API.UpsertPage(ctx, title, markup.ReportBody(title, headers, rows, plotName), u.ParentTitle)
	if err != nil {
		return confluence.PageRef{}, fmt.Errorf("publish: couldn't update report page %q with plot: %w", title, err)
	}

	u.Logger.Printf("Report page %q: %s", title, ref.WebURL)
	return ref, nil
}

// ReadSheet loads tabular data from a .csv or .xlsx file.  For spreadsheets
// only the first worksheet is read.  The first row is the header.
func ReadSheet(path string) (headers []string, rows [][]string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, nil, fmt.Errorf("publish: unsupported sheet format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("publish: couldn't open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("publish: couldn't parse CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("publish: sheet %s is empty", path)
	}

	return records[0], records[1:], nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("publish: couldn't open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("publish: workbook %s has no sheets", path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("publish: couldn't read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("publish: sheet %s is empty", path)
	}

	// Excelize trims trailing empty cells per row; pad back out to the
	// header width so the table stays rectangular.
	width := len(records[0])
	rows := make([][]string, 0, len(records)-1)
	for _, r := range records[1:] {
		for len(r) < width {
			r = append(r, "")
		}
		rows = append(rows, r[:width])
	}

	return records[0], rows, nil
}
