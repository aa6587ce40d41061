package publish

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := map[string]Kind{
		"amplifier.ils":  KindCode,
		"layout.il":      KindCode,
		"SCHEMATIC.ILS":  KindCode,
		"plot.png":       KindImage,
		"photo.JPEG":     KindImage,
		"slides.pptx":    KindOffice,
		"results.xlsx":   KindOffice,
		"spec.docx":      KindOffice,
		"notes.txt":      KindUnknown,
		"archive.tar.gz": KindUnknown,
		"no-extension":   KindUnknown,
		".ils":           KindCode,
		"weird.ils.bak":  KindUnknown,
	}

	for filename, want := range cases {
		require.Equal(t, want, Classify(filename), "filename: %s", filename)
	}
}

func TestSupported(t *testing.T) {
	require.True(t, Supported("a.ils"))
	require.False(t, Supported("a.txt"))
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	require.Contains(t, exts, ".ils")
	require.Contains(t, exts, ".png")
	require.Contains(t, exts, ".docx")
	require.True(t, sortedStrings(exts))
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestMIMEType(t *testing.T) {
	require.Equal(t, "text/plain", MIMEType("run.ils"))
	require.Equal(t, "image/png", MIMEType("plot.png"))
	require.Equal(t, "application/octet-stream", MIMEType("blob.xyz123"))
}
