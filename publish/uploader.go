package publish

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skillwiki/confluence-publish/confluence"
	"github.com/skillwiki/confluence-publish/markup"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"gopkg.in/yaml.v3"
)

// codeLanguage is what the code macro highlights embedded sources as.
// SKILL is a Lisp dialect, which is the closest brush Confluence has.
const codeLanguage = "lisp"

// Uploader publishes local files into a Confluence page hierarchy.  All
// operations run strictly sequentially: each step needs the page ID the
// previous step produced.
type Uploader struct {
	API *confluence.API

	// ParentTitle is the global parent page everything hangs under.
	ParentTitle string

	Logger *log.Logger

	// ShowProgress draws a progress bar over the file loop.
	ShowProgress bool

	// ManifestPath, when set, receives a YAML record of what was published.
	ManifestPath string
}

// Manifest records one directory upload for later inspection or tooling.
type Manifest struct {
	Space     string          `yaml:"space"`
	Section   string          `yaml:"section"`
	Directory string          `yaml:"directory"`
	Entries   []ManifestEntry `yaml:"entries"`
}

// ManifestEntry records one published file.
type ManifestEntry struct {
	File              string `yaml:"file"`
	Kind              string `yaml:"kind"`
	PageID            string `yaml:"page-id"`
	PageURL           string `yaml:"page-url"`
	AttachmentID      string `yaml:"attachment-id"`
	AttachmentVersion int    `yaml:"attachment-version"`
	Error             string `yaml:"error,omitempty"`
}

// UploadDirectory builds a three-level hierarchy: a section page under the
// global parent, a directory page under the section, and one wrapper page
// plus attachment per supported file directly inside dir.  Subdirectories
// are not traversed.  A failure on a single file is logged and the batch
// continues; failures on the section or directory page abort.
func (u *Uploader) UploadDirectory(ctx context.Context, dir string, dirTitle string, sectionTitle string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("publish: couldn't read directory %s: %w", dir, err)
	}

	files := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !Supported(e.Name()) {
			u.Logger.Printf("Skipping %s (unsupported extension)", e.Name())
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	u.Logger.Printf("Publishing %d files from %s...", len(files), dir)

	sectionRef, err := u.API.UpsertPage(ctx, sectionTitle, markup.SectionBody(), u.ParentTitle)
	if err != nil {
		return fmt.Errorf("publish: couldn't upsert section page %q: %w", sectionTitle, err)
	}
	u.Logger.Printf("Section page %q: %s", sectionTitle, sectionRef.WebURL)

	dirRef, err := u.API.UpsertPage(ctx, dirTitle, markup.DirectoryBody(filepath.Base(dir)), sectionTitle)
	if err != nil {
		return fmt.Errorf("publish: couldn't upsert directory page %q: %w", dirTitle, err)
	}
	u.Logger.Printf("Directory page %q: %s", dirTitle, dirRef.WebURL)

	manifest := Manifest{
		Space:     u.API.Space,
		Section:   sectionTitle,
		Directory: dirTitle,
	}

	progress, bar := u.progressBar(len(files))

	failed := 0
	for _, name := range files {
		entry, err := u.publishFile(ctx, filepath.Join(dir, name), name, dirTitle)
		if err != nil {
			// One bad file must not sink the batch.
			u.Logger.Printf("Error publishing %s: %v", name, err)
			entry.Error = err.Error()
			failed++
		}
		manifest.Entries = append(manifest.Entries, entry)
		if bar != nil {
			bar.Increment()
		}
	}

	if progress != nil {
		// wait for the bar to complete and flush
		progress.Wait()
	}

	if err := u.writeManifest(manifest); err != nil {
		return err
	}

	u.Logger.Printf("Batch complete: %d published, %d failed.", len(files)-failed, failed)
	return nil
}

// UploadFile publishes a single file as a wrapper page directly under the
// global parent, with the raw file attached.  pageTitle defaults to the
// filename.
func (u *Uploader) UploadFile(ctx context.Context, path string, pageTitle string) (confluence.PageRef, error) {
	name := filepath.Base(path)
	if pageTitle == "" {
		pageTitle = name
	}

	entry, err := u.publishFileAs(ctx, path, name, pageTitle, u.ParentTitle)
	if err != nil {
		return confluence.PageRef{}, err
	}

	return confluence.PageRef{ID: entry.PageID, WebURL: entry.PageURL}, nil
}

// publishFile wraps one file in a page under parentTitle and attaches the
// raw bytes to it.  The page title is the filename, matching the directory
// flow.
func (u *Uploader) publishFile(ctx context.Context, path string, name string, parentTitle string) (ManifestEntry, error) {
	return u.publishFileAs(ctx, path, name, name, parentTitle)
}

func (u *Uploader) publishFileAs(ctx context.Context, path, name, pageTitle, parentTitle string) (ManifestEntry, error) {
	kind := Classify(name)
	entry := ManifestEntry{File: name, Kind: kind.String()}

	data, err := os.ReadFile(path)
	if err != nil {
		return entry, fmt.Errorf("publish: couldn't read %s: %w", path, err)
	}

	body := bodyForFile(kind, name, data)

	pageRef, err := u.API.UpsertPage(ctx, pageTitle, body, parentTitle)
	if err != nil {
		return entry, fmt.Errorf("publish: couldn't upsert wrapper page %q: %w", pageTitle, err)
	}
	entry.PageID = pageRef.ID
	entry.PageURL = pageRef.WebURL

	attRef, err := u.API.UpsertAttachment(ctx, pageRef.ID, name, data, MIMEType(name))
	if err != nil {
		return entry, fmt.Errorf("publish: couldn't upsert attachment %q: %w", name, err)
	}
	entry.AttachmentID = attRef.ID
	entry.AttachmentVersion = attRef.Version

	return entry, nil
}

// bodyForFile renders the wrapper-page body for one classified file.  All
// kind dispatch happens here; the upload flow itself is kind-agnostic.
func bodyForFile(kind Kind, filename string, data []byte) string {
	switch kind {
	case KindCode:
		source := strings.ReplaceAll(string(data), "\r\n", "\n")
		return markup.CodePageBody(filename, source, codeLanguage)
	case KindImage:
		return markup.ImagePageBody(filename)
	case KindOffice:
		return markup.OfficePageBody(filename)
	default:
		return markup.FallbackPageBody(filename)
	}
}

func (u *Uploader) progressBar(total int) (*mpb.Progress, *mpb.Bar) {
	if !u.ShowProgress || total == 0 {
		return nil, nil
	}

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("files:", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
		),
	)
	return p, bar
}

func (u *Uploader) writeManifest(manifest Manifest) error {
	if u.ManifestPath == "" {
		return nil
	}

	encoded, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("publish: couldn't encode manifest: %w", err)
	}

	if err := os.WriteFile(u.ManifestPath, encoded, 0644); err != nil {
		return fmt.Errorf("publish: couldn't write manifest %s: %w", u.ManifestPath, err)
	}

	u.Logger.Printf("Wrote manifest to %s", u.ManifestPath)
	return nil
}
