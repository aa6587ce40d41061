package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// do performs one request and hands back the status code and raw body.  It
// deliberately does not turn non-2xx statuses into errors: the upsert flows
// branch on status and need the body verbatim.
func (api *API) do(ctx context.Context, method string, url *url.URL, header http.Header, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url.String(), body)
	if err != nil {
		return 0, nil, fmt.Errorf("confluence: couldn't instantiate http request: %w", err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("Authorization", "Bearer "+api.token)

	response, err := api.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("confluence: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return 0, nil, fmt.Errorf("confluence: couldn't close response body: %w", err)
	}

	return response.StatusCode, respBody, nil
}

// getJSON performs a GET and decodes the body into target.  A non-2xx status
// is an error here, since all our GETs expect a result list or object.
func (api *API) getJSON(ctx context.Context, url *url.URL, target any) error {
	status, body, err := api.do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return fmt.Errorf("confluence: GET %s: status %d: %s", url.Path, status, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &LookupError{Err: err, BodyPreview: string(body)}
	}

	return nil
}

// postJSON and putJSON send a JSON payload and return status + raw body for
// the caller to interpret.
func (api *API) postJSON(ctx context.Context, url *url.URL, payload any) (int, []byte, error) {
	return api.sendJSON(ctx, http.MethodPost, url, payload)
}

func (api *API) putJSON(ctx context.Context, url *url.URL, payload any) (int, []byte, error) {
	return api.sendJSON(ctx, http.MethodPut, url, payload)
}

func (api *API) sendJSON(ctx context.Context, method string, url *url.URL, payload any) (int, []byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("confluence: couldn't encode request payload: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	return api.do(ctx, method, url, header, bytes.NewReader(encoded))
}

// postMultipart uploads one file part named "file".  The X-Atlassian-Token
// header is required to get past the platform's CSRF check for non-browser
// clients.
func (api *API) postMultipart(ctx context.Context, url *url.URL, filename string, data []byte, mimeType string) (int, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	partHeader.Set("Content-Type", mimeType)

	part, err := w.CreatePart(partHeader)
	if err != nil {
		return 0, nil, fmt.Errorf("confluence: couldn't create multipart section: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return 0, nil, fmt.Errorf("confluence: couldn't write multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, nil, fmt.Errorf("confluence: couldn't finalise multipart body: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", w.FormDataContentType())
	header.Set("X-Atlassian-Token", "no-check")

	return api.do(ctx, http.MethodPost, url, header, &buf)
}
