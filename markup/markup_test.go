package markup

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeCDATA runs a string through a real XML parser the way a storage-format
// consumer would, recovering the text of the (possibly split) CDATA sections.
func decodeCDATA(t *testing.T, escaped string) string {
	t.Helper()

	doc := "<r><![CDATA[" + escaped + "]]></r>"
	var out struct {
		Data string `xml:",chardata"`
	}
	require.NoError(t, xml.Unmarshal([]byte(doc), &out))
	return out.Data
}

func TestEscapeCDATARoundTrips(t *testing.T) {
	cases := []string{
		"plain text",
		"",
		"a ]]> b",
		"]]>",
		"]]>]]>",
		"nested <![CDATA[ opener",
		"trailing ]]",
		"x = y > 1 && z",
	}

	for _, source := range cases {
		require.Equal(t, source, decodeCDATA(t, EscapeCDATA(source)), "source: %q", source)
	}
}

func TestCodeBlock(t *testing.T) {
	source := "(let ((x 1))\n  (if (> x 0) \"]]>\" nil))"
	got := CodeBlock("lisp", source)

	require.Contains(t, got, `ac:name="code"`)
	require.Contains(t, got, `<ac:parameter ac:name="language">lisp</ac:parameter>`)
	require.Contains(t, got, `<ac:parameter ac:name="linenumbers">true</ac:parameter>`)

	// The embedded source must survive a real parse despite the "]]>".
	body := got[strings.Index(got, "<![CDATA[")+len("<![CDATA[") : strings.LastIndex(got, "]]>")]
	require.Equal(t, source, decodeCDATA(t, body))
}

func TestAttachmentImage(t *testing.T) {
	got := AttachmentImage("plot one.png")
	require.Equal(t, `<ac:image><ri:attachment ri:filename="plot one.png" /></ac:image>`, got)
}

func TestDownloadLink(t *testing.T) {
	got := DownloadLink("script.ils")
	require.Contains(t, got, `ri:filename="script.ils"`)
	require.Contains(t, got, "<![CDATA[Download script.ils]]>")
}

func TestViewFile(t *testing.T) {
	got := ViewFile("slides.pptx")
	require.Contains(t, got, `ac:name="view-file"`)
	require.Contains(t, got, `ri:filename="slides.pptx"`)
}

func TestTableEscapesCells(t *testing.T) {
	got := Table([]string{"Name", "Limit"}, [][]string{
		{"a<b", "x & y"},
		{"plain", "2"},
	})

	require.Contains(t, got, "<th>Name</th><th>Limit</th>")
	require.Contains(t, got, "<td>a&lt;b</td><td>x &amp; y</td>")
	require.Contains(t, got, "<td>plain</td><td>2</td>")
	require.NotContains(t, got, "a<b")
}

func TestHeadingClampsLevel(t *testing.T) {
	require.Equal(t, "<h1>t</h1>", Heading(0, "t"))
	require.Equal(t, "<h6>t</h6>", Heading(9, "t"))
	require.Equal(t, "<h3>a &amp; b</h3>", Heading(3, "a & b"))
}

func TestCodePageBody(t *testing.T) {
	got := CodePageBody("run.ils", "(print 1)", "lisp")
	require.Contains(t, got, "<p>Filename: run.ils</p>")
	require.Contains(t, got, "Download run.ils")
	require.Contains(t, got, "<![CDATA[(print 1)]]>")
}

func TestReportBody(t *testing.T) {
	headers := []string{"corner", "delay"}
	rows := [][]string{{"tt", "1.2"}}

	withoutPlot := ReportBody("Timing", headers, rows, "")
	require.Contains(t, withoutPlot, "<h1>Timing</h1>")
	require.Contains(t, withoutPlot, "<td>tt</td><td>1.2</td>")
	require.NotContains(t, withoutPlot, "ac:image")

	withPlot := ReportBody("Timing", headers, rows, "timing.png")
	require.Contains(t, withPlot, `ri:filename="timing.png"`)
	require.Contains(t, withPlot, "<h2>Plot</h2>")
}
