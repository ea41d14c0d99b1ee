// Package webfetch fetches single pages for the email harvester. Every
// transport failure and every HTTP status >= 400 collapses to "no content":
// callers branch on the explicit ok flag instead of handling errors.
package webfetch

import "context"

// Fetcher retrieves a page body as text. ok is false when the page could not
// be fetched for any reason; the harvester treats that as an empty page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (body string, ok bool)
}
