package publish

import (
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kind classifies a file by extension and decides which wrapper-page
// template it gets.
type Kind int

const (
	KindUnknown Kind = iota
	KindCode
	KindImage
	KindOffice
)

func (k Kind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindImage:
		return "image"
	case KindOffice:
		return "office"
	default:
		return "unknown"
	}
}

var kindByExtension = map[string]Kind{
	".ils": KindCode,
	".il":  KindCode,

	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".bmp":  KindImage,

	".pptx": KindOffice,
	".ppt":  KindOffice,
	".xlsx": KindOffice,
	".xls":  KindOffice,
	".docx": KindOffice,
	".doc":  KindOffice,
}

// Classify maps a filename to its Kind.  Unsupported extensions come back
// as KindUnknown.
func Classify(filename string) Kind {
	return kindByExtension[strings.ToLower(filepath.Ext(filename))]
}

// Supported reports whether the directory uploader should publish this file.
func Supported(filename string) bool {
	return Classify(filename) != KindUnknown
}

// SupportedExtensions lists the recognised extensions, sorted, for help
// text and diagnostics.
func SupportedExtensions() []string {
	exts := maps.Keys(kindByExtension)
	slices.Sort(exts)
	return exts
}

// MIMEType guesses a file's MIME type from its extension.  SKILL sources
// get text/plain so the browser can preview them; anything unknown falls
// back to application/octet-stream.
func MIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	if Classify(filename) == KindCode {
		return "text/plain"
	}

	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
