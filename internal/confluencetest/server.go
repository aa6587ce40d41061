// Package confluencetest provides a minimal in-memory Confluence for tests:
// just enough of the v1 content API for the upsert engines to talk to.
package confluencetest

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// Page is one stored page.  ParentID is empty for space roots.
type Page struct {
	ID       string
	Title    string
	ParentID string
	Version  int
	Body     string
}

// Attachment is one stored attachment with its current content.
type Attachment struct {
	ID        string
	Filename  string
	MediaType string
	Version   int
	Data      []byte
}

// Server fakes one Confluence space behind an httptest server.
type Server struct {
	*httptest.Server

	// FailCreateTitles makes page creation for these titles answer 500, to
	// exercise batch continue-on-error behavior.
	FailCreateTitles map[string]bool

	// ServeHTML makes content searches answer with an HTML login page
	// instead of JSON, the way an auth redirect does.
	ServeHTML bool

	// ForceDuplicateAttachment makes every attachment create answer the
	// duplicate-filename rejection, even when no such attachment exists.
	ForceDuplicateAttachment bool

	mu          sync.Mutex
	pages       map[string]*Page
	pageOrder   []string
	attachments map[string]map[string]*Attachment // pageID -> filename
	nextID      int
}

func NewServer() *Server {
	s := &Server{
		FailCreateTitles: map[string]bool{},
		pages:            map[string]*Page{},
		attachments:      map[string]map[string]*Attachment{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/api/content", s.searchContent)
	mux.HandleFunc("POST /rest/api/content", s.createContent)
	mux.HandleFunc("GET /rest/api/content/{id}", s.getContent)
	mux.HandleFunc("PUT /rest/api/content/{id}", s.updateContent)
	mux.HandleFunc("GET /rest/api/content/{id}/child/attachment", s.listAttachments)
	mux.HandleFunc("POST /rest/api/content/{id}/child/attachment", s.createAttachment)
	mux.HandleFunc("POST /rest/api/content/{id}/child/attachment/{attid}/data", s.updateAttachmentData)

	s.Server = httptest.NewServer(mux)
	return s
}

// SeedPage inserts a page directly, bypassing the API.  Use it to set up
// parents; parentID may be empty for a root.
func (s *Server) SeedPage(title, parentID string) *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertPage(title, parentID, "")
}

// PageByID fetches a stored page.
func (s *Server) PageByID(id string) (Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return Page{}, false
	}
	return *p, true
}

// PagesByTitle returns all stored pages with the given title, in creation
// order.
func (s *Server) PagesByTitle(title string) []Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := []Page{}
	for _, id := range s.pageOrder {
		if s.pages[id].Title == title {
			found = append(found, *s.pages[id])
		}
	}
	return found
}

// AttachmentByName fetches one page's attachment by filename.
func (s *Server) AttachmentByName(pageID, filename string) (Attachment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attachments[pageID][filename]
	if !ok {
		return Attachment{}, false
	}
	copied := *a
	copied.Data = append([]byte(nil), a.Data...)
	return copied, true
}

// AttachmentCount reports how many attachments a page holds.
func (s *Server) AttachmentCount(pageID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attachments[pageID])
}

func (s *Server) insertPage(title, parentID, body string) *Page {
	s.nextID++
	p := &Page{
		ID:       fmt.Sprintf("%d", 10000+s.nextID),
		Title:    title,
		ParentID: parentID,
		Version:  1,
		Body:     body,
	}
	s.pages[p.ID] = p
	s.pageOrder = append(s.pageOrder, p.ID)
	return p
}

func (s *Server) ancestorsOf(p *Page) []map[string]string {
	// Root-first, direct parent last, like the real API.
	chain := []map[string]string{}
	for id := p.ParentID; id != ""; {
		parent, ok := s.pages[id]
		if !ok {
			break
		}
		chain = append([]map[string]string{{"id": parent.ID}}, chain...)
		id = parent.ParentID
	}
	return chain
}

func (s *Server) pageJSON(p *Page) map[string]any {
	return map[string]any{
		"id":        p.ID,
		"type":      "page",
		"status":    "current",
		"title":     p.Title,
		"ancestors": s.ancestorsOf(p),
		"version":   map[string]any{"number": p.Version},
		"body": map[string]any{
			"storage": map[string]any{"value": p.Body, "representation": "storage"},
			"view":    map[string]any{"value": p.Body, "representation": "view"},
		},
		"_links": map[string]any{"webui": "/display/TEST/" + url.PathEscape(p.Title)},
	}
}

func (s *Server) attachmentJSON(a *Attachment) map[string]any {
	return map[string]any{
		"id":      a.ID,
		"type":    "attachment",
		"title":   a.Filename,
		"version": map[string]any{"number": a.Version},
		"extensions": map[string]any{
			"mediaType": a.MediaType,
			"fileSize":  len(a.Data),
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) searchContent(w http.ResponseWriter, r *http.Request) {
	if s.ServeHTML {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>Log in to continue</body></html>")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	title := r.URL.Query().Get("title")
	results := []map[string]any{}
	for _, id := range s.pageOrder {
		if s.pages[id].Title == title {
			results = append(results, s.pageJSON(s.pages[id]))
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"start":   0,
		"limit":   25,
		"size":    len(results),
	})
}

type contentPayload struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Ancestors []struct {
		ID string `json:"id"`
	} `json:"ancestors"`
	Body struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
}

func (s *Server) createContent(w http.ResponseWriter, r *http.Request) {
	var payload contentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreateTitles[payload.Title] {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "injected failure"})
		return
	}

	parentID := ""
	if len(payload.Ancestors) > 0 {
		parentID = payload.Ancestors[0].ID
	}
	if parentID != "" {
		if _, ok := s.pages[parentID]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "no such ancestor"})
			return
		}
	}

	p := s.insertPage(payload.Title, parentID, payload.Body.Storage.Value)
	writeJSON(w, http.StatusOK, s.pageJSON(p))
}

func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "no content with that id"})
		return
	}
	writeJSON(w, http.StatusOK, s.pageJSON(p))
}

func (s *Server) updateContent(w http.ResponseWriter, r *http.Request) {
	var payload contentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "no content with that id"})
		return
	}

	// The real platform's optimistic-concurrency check.
	if payload.Version.Number != p.Version+1 {
		writeJSON(w, http.StatusConflict, map[string]any{
			"message": fmt.Sprintf("version must be %d", p.Version+1),
		})
		return
	}

	p.Title = payload.Title
	p.Body = payload.Body.Storage.Value
	p.Version = payload.Version.Number
	writeJSON(w, http.StatusOK, s.pageJSON(p))
}

func (s *Server) listAttachments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pageID := r.PathValue("id")
	filename := r.URL.Query().Get("filename")

	results := []map[string]any{}
	for _, a := range s.attachments[pageID] {
		if filename == "" || a.Filename == filename {
			results = append(results, s.attachmentJSON(a))
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results, "size": len(results)})
}

func (s *Server) createAttachment(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Atlassian-Token") != "no-check" {
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "XSRF check failed"})
		return
	}

	filename, mediaType, data, err := readUpload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pageID := r.PathValue("id")
	if _, ok := s.pages[pageID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "no content with that id"})
		return
	}

	if _, exists := s.attachments[pageID][filename]; exists || s.ForceDuplicateAttachment {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": fmt.Sprintf("Cannot add a new attachment with same file name as an existing attachment: %s", filename),
		})
		return
	}

	s.nextID++
	a := &Attachment{
		ID:        fmt.Sprintf("att%d", 10000+s.nextID),
		Filename:  filename,
		MediaType: mediaType,
		Version:   1,
		Data:      data,
	}
	if s.attachments[pageID] == nil {
		s.attachments[pageID] = map[string]*Attachment{}
	}
	s.attachments[pageID][filename] = a

	writeJSON(w, http.StatusOK, map[string]any{
		"results": []map[string]any{s.attachmentJSON(a)},
		"size":    1,
	})
}

func (s *Server) updateAttachmentData(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Atlassian-Token") != "no-check" {
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "XSRF check failed"})
		return
	}

	// The platform keeps the original filename on a data update.
	_, mediaType, data, err := readUpload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pageID := r.PathValue("id")
	attID := r.PathValue("attid")

	for _, a := range s.attachments[pageID] {
		if a.ID == attID {
			a.Data = data
			a.MediaType = mediaType
			a.Version++
			writeJSON(w, http.StatusOK, s.attachmentJSON(a))
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]any{"message": "no attachment with that id"})
}

func readUpload(r *http.Request) (filename, mediaType string, data []byte, err error) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return "", "", nil, fmt.Errorf("bad content type: %w", err)
	}

	mr := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", "", nil, err
		}
		if part.FormName() != "file" {
			continue
		}
		data, err = io.ReadAll(part)
		if err != nil {
			return "", "", nil, err
		}
		return part.FileName(), part.Header.Get("Content-Type"), data, nil
	}

	return "", "", nil, fmt.Errorf("no file part in upload")
}
