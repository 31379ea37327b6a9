package cleanplate

import "context"

// Fetcher retrieves raw HTML from recipe URLs.
// Implementations do not execute JavaScript; pages that need it are
// reported as EJSREQUIRED rather than returned empty.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// Failures carry one of the fetch error codes (ENETWORK, ESSL,
	// EACCESSDENIED, EHTTP, EBOTCHALLENGE, EJSREQUIRED).
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases transport resources.
	Close() error
}

// URLValidator screens target URLs before any request is made.
type URLValidator interface {
	// Validate returns EUNSAFEURL or EINVALID if the URL must not be fetched.
	Validate(ctx context.Context, rawURL string) error
}
