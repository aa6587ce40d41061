package markup

import (
	"fmt"
	"strings"
)

// Whole-page bodies for the publishing flows.  These mirror the wrapper
// pages the directory uploader builds: one page per file, plus the section
// and directory container pages above them.

// CodePageBody documents a script file: download link plus the source
// embedded in a code macro.
func CodePageBody(filename string, source string, language string) string {
	return strings.Join([]string{
		Paragraph("Filename: " + filename),
		Heading(3, "Download"),
		DownloadLink(filename),
		Heading(3, "Source Code"),
		CodeBlock(language, source),
	}, "\n")
}

// ImagePageBody displays an image attachment inline with a download link.
func ImagePageBody(filename string) string {
	return strings.Join([]string{
		Paragraph("Filename: " + filename),
		AttachmentImage(filename),
		Heading(3, "Download"),
		DownloadLink(filename),
	}, "\n")
}

// OfficePageBody previews an office document via the view-file macro.
func OfficePageBody(filename string) string {
	return strings.Join([]string{
		Paragraph("Filename: " + filename),
		Heading(3, "Download"),
		DownloadLink(filename),
		Heading(3, "Preview"),
		ViewFile(filename),
	}, "\n")
}

// FallbackPageBody is the wrapper for files we can attach but not render.
func FallbackPageBody(filename string) string {
	return strings.Join([]string{
		Paragraph("Filename: " + filename),
		Heading(3, "Download"),
		DownloadLink(filename),
	}, "\n")
}

// SectionBody is the intermediate grouping page; its content is just the
// auto-listing of children.
func SectionBody() string {
	return strings.Join([]string{
		Paragraph("This section contains resources and libraries."),
		ChildrenMacro(),
	}, "\n")
}

// DirectoryBody is the container page standing in for one local directory.
func DirectoryBody(dirName string) string {
	return strings.Join([]string{
		fmt.Sprintf("<p>This page contains resources imported from directory: %s</p>", Bold(dirName)),
		"<p><i>Structure maintained by confluence-publish; edits here will be overwritten.</i></p>",
		Heading(3, "Contents"),
		ChildrenMacro(),
	}, "\n")
}

// ReportBody lays out a published data report: intro, data table, and
// optionally an inline plot image (referenced by attachment filename; pass
// "" before the attachment exists).
func ReportBody(title string, headers []string, rows [][]string, plotFilename string) string {
	parts := []string{
		Heading(1, title),
		Heading(2, "Data"),
		Table(headers, rows),
	}

	if plotFilename != "" {
		parts = append(parts,
			Heading(2, "Plot"),
			AttachmentImage(plotFilename),
		)
	}

	parts = append(parts, "<p><i>Published by confluence-publish. Do not edit manually.</i></p>")

	return strings.Join(parts, "\n")
}
