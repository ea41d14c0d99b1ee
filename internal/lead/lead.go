// Package lead defines the core lead entities and the qualification policy
// applied to place records before any outreach happens.
package lead

import "time"

// Status represents the lifecycle state of a lead within a single run.
type Status string

// Lead status values written to exports.
const (
	StatusNew     Status = "new"
	StatusEmailed Status = "emailed"
	StatusSkipped Status = "skipped"
)

// Lead is a candidate business enriched with harvested contact emails.
// Leads are transient: they are rebuilt from upstream sources on every run,
// while send history lives in the persisted outreach state.
type Lead struct {
	PlaceID          string    `json:"place_id"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	Website          string    `json:"website,omitempty"`
	Rating           *float64  `json:"rating,omitempty"`
	UserRatingsTotal int       `json:"user_ratings_total"`
	PhotosCount      int       `json:"photos_count"`
	Emails           []string  `json:"emails"`
	ScrapedAt        time.Time `json:"scraped_at"`
	Status           Status    `json:"status"`
}

// Details is the typed boundary record returned by the place-details
// collaborator. Optional upstream fields stay optional here instead of
// leaking an untyped map into the builder.
type Details struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Website          string
	Rating           *float64
	UserRatingsTotal int
	PhotosCount      int
}

// Empty reports whether the details record carries no usable data,
// which happens when the details fetch failed or returned nothing.
func (d Details) Empty() bool {
	return d.PlaceID == "" && d.Name == "" && d.FormattedAddress == ""
}

// Summary is the minimal place record produced by a nearby search.
type Summary struct {
	PlaceID string
	Name    string
}

// Dedupe removes later occurrences of an already-seen place ID,
// preserving the order of first appearance.
func Dedupe(leads []Lead) []Lead {
	seen := make(map[string]struct{}, len(leads))
	out := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if _, ok := seen[l.PlaceID]; ok {
			continue
		}
		seen[l.PlaceID] = struct{}{}
		out = append(out, l)
	}
	return out
}
