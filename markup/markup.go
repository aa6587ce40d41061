// Package markup renders Confluence storage-format fragments: semi-HTML with
// the vendor's ac:/ri: macro tags.  Everything here is plain string assembly;
// the only subtlety is CDATA escaping for embedded source code.
package markup

import (
	"fmt"
	"html"
	"strings"
)

// EscapeCDATA makes s safe to embed inside a CDATA section.  A literal "]]>"
// would terminate the section early, so it is split across two sections:
// the text up to "]]" closes the current one, and ">" reopens in the next.
// A storage-format parser reassembles the original string exactly.
func EscapeCDATA(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}

// CodeBlock wraps source code in the code macro with line numbers on.  The
// body is CDATA, not entity-escaped: the code must round-trip byte-for-byte.
func CodeBlock(language string, source string) string {
	return fmt.Sprintf(`<ac:structured-macro ac:name="code">
<ac:parameter ac:name="language">%s</ac:parameter>
<ac:parameter ac:name="linenumbers">true</ac:parameter>
<ac:plain-text-body><![CDATA[%s]]></ac:plain-text-body>
</ac:structured-macro>`, html.EscapeString(language), EscapeCDATA(source))
}

// AttachmentImage displays a page attachment inline.  Confluence refuses
// inline base64 images; attach-then-reference is the only way.
func AttachmentImage(filename string) string {
	return fmt.Sprintf(`<ac:image><ri:attachment ri:filename=%q /></ac:image>`, html.EscapeString(filename))
}

// DownloadLink renders a download link to a page attachment.
func DownloadLink(filename string) string {
	return fmt.Sprintf(`<ac:link>
<ri:attachment ri:filename=%q />
<ac:plain-text-link-body><![CDATA[Download %s]]></ac:plain-text-link-body>
</ac:link>`, html.EscapeString(filename), EscapeCDATA(filename))
}

// ViewFile renders the view-file macro, which previews office documents
// inline.
func ViewFile(filename string) string {
	return fmt.Sprintf(`<ac:structured-macro ac:name="view-file">
<ac:parameter ac:name="name"><ri:attachment ri:filename=%q /></ac:parameter>
</ac:structured-macro>`, html.EscapeString(filename))
}

// ChildrenMacro renders the auto-listing of a page's child pages.
func ChildrenMacro() string {
	return `<ac:structured-macro ac:name="children" />`
}

// Table renders headers and rows as a plain HTML table, cell text escaped.
func Table(headers []string, rows [][]string) string {
	var b strings.Builder

	b.WriteString("<table><tbody>\n<tr>")
	for _, h := range headers {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(h))
	}
	b.WriteString("</tr>\n")

	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(cell))
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString("</tbody></table>")
	return b.String()
}

// Heading renders an hN element with escaped text.
func Heading(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return fmt.Sprintf("<h%d>%s</h%d>", level, html.EscapeString(text), level)
}

// Paragraph renders a p element with escaped text.
func Paragraph(text string) string {
	return fmt.Sprintf("<p>%s</p>", html.EscapeString(text))
}

// Bold renders inline bold text, escaped.
func Bold(text string) string {
	return fmt.Sprintf("<b>%s</b>", html.EscapeString(text))
}
