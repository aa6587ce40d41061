package confluence

import "fmt"

// NotFoundError means a title lookup returned an empty result set.
type NotFoundError struct {
	Title    string
	SpaceKey string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("confluence: no page found with title %q in space %q", e.Title, e.SpaceKey)
}

// LookupError means a lookup call did not return a well-formed result list.
// The classic cause is an authentication redirect handing back an HTML login
// page instead of JSON.
type LookupError struct {
	Err         error
	BodyPreview string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("confluence: malformed lookup response: %v (body starts: %.120q)", e.Err, e.BodyPreview)
}

func (e *LookupError) Unwrap() error { return e.Err }

// UpsertError means a write was rejected with a non-success HTTP status.
// Status code and response body are carried verbatim; the caller decides
// whether to continue a batch or abort.
type UpsertError struct {
	StatusCode int
	Body       string
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("confluence: upsert rejected: status %d: %s", e.StatusCode, e.Body)
}

// ConsistencyError means the platform reported a duplicate-filename conflict
// but the conflicting attachment could not subsequently be located.  Fatal
// for the call: there is nothing sensible to retry.
type ConsistencyError struct {
	PageID   string
	Filename string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("confluence: page %s reports attachment %q exists but it cannot be found", e.PageID, e.Filename)
}
