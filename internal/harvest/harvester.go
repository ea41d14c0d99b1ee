// Package harvest finds publicly listed contact emails on a business website.
package harvest

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/magicplate/outreach/internal/extract"
	"github.com/magicplate/outreach/internal/webfetch"
)

// Harvester fetches a site's homepage and, when that yields nothing, a
// bounded list of likely contact pages. The first page with any usable
// email wins; fetching is strictly sequential.
type Harvester struct {
	fetcher webfetch.Fetcher
	logger  *zap.Logger
}

// New creates a Harvester on top of the given page fetcher.
func New(fetcher webfetch.Fetcher, logger *zap.Logger) *Harvester {
	return &Harvester{fetcher: fetcher, logger: logger}
}

// FindEmails returns the ordered emails harvested for the website, or an
// empty slice when nothing was found. A bare domain gets https prepended.
func (h *Harvester) FindEmails(ctx context.Context, website string) []string {
	if website == "" {
		return nil
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}

	home, _ := h.fetcher.Fetch(ctx, website)
	if emails := extract.Emails(home); len(emails) > 0 {
		return emails
	}

	for _, link := range extract.CandidateLinks(website, home) {
		if ctx.Err() != nil {
			return nil
		}
		page, ok := h.fetcher.Fetch(ctx, link)
		if !ok {
			continue
		}
		if emails := extract.Emails(page); len(emails) > 0 {
			h.logger.Debug("emails found on candidate page", zap.String("url", link))
			return emails
		}
	}
	return nil
}
